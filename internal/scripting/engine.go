package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for range choreography scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory tree: scripts/core first, then scripts/director.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "director"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory. Missing directories are
// skipped.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DirectorContext holds pre-packed scene state for a director decision.
// Go owns the pool and the movement pass; Lua only decides what the range
// should do next.
type DirectorContext struct {
	Tick         int
	StaticActive int
	StaticPooled int
	MovingActive int
	MovingPooled int
	LiveEntities int
}

// DirectorCommand is a single action returned by the Lua director.
type DirectorCommand struct {
	Type  string  // "spawn_static", "spawn_moving", "pause_all", "resume_all", "disable_all", "destroy_all", "idle"
	X     float64 // spawn position
	Y     float64
	Z     float64
	Route string  // spawn_moving: route name from route_list.yaml
	Speed float64 // spawn_moving: 0 = default speed
}

// RunDirector calls the Lua run_director(ctx) function and returns the
// commands it produced. A missing function or a script error yields no
// commands; the range simply keeps running.
func (e *Engine) RunDirector(ctx DirectorContext) []DirectorCommand {
	fn := e.vm.GetGlobal("run_director")
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("static_active", lua.LNumber(ctx.StaticActive))
	t.RawSetString("static_pooled", lua.LNumber(ctx.StaticPooled))
	t.RawSetString("moving_active", lua.LNumber(ctx.MovingActive))
	t.RawSetString("moving_pooled", lua.LNumber(ctx.MovingPooled))
	t.RawSetString("live_entities", lua.LNumber(ctx.LiveEntities))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua run_director error", zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []DirectorCommand
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			cmds = append(cmds, DirectorCommand{
				Type:  lStr(row, "type"),
				X:     lFloat(row, "x"),
				Y:     lFloat(row, "y"),
				Z:     lFloat(row, "z"),
				Route: lStr(row, "route"),
				Speed: lFloat(row, "speed"),
			})
		}
	})
	return cmds
}

// DoString executes a raw Lua chunk against the engine's VM.
func (e *Engine) DoString(chunk string) error {
	return e.vm.DoString(chunk)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// --- Lua helpers ---

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// lFloat reads a numeric field from a Lua table.
func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}
