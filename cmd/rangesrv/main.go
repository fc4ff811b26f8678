package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/config"
	"github.com/targetrange/server/internal/core/event"
	coresys "github.com/targetrange/server/internal/core/system"
	"github.com/targetrange/server/internal/data"
	"github.com/targetrange/server/internal/persist"
	"github.com/targetrange/server/internal/scene"
	"github.com/targetrange/server/internal/scripting"
	"github.com/targetrange/server/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           rangesrv  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      target range simulation server       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("RANGESRV_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	startedAt := time.Now()

	// 3. Optional PostgreSQL for session telemetry
	var sessionRepo *persist.SessionRepo
	if cfg.Database.Enabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("postgres connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		cancel()
		printOK("migrations applied")
		fmt.Println()

		sessionRepo = persist.NewSessionRepo(db)
	}

	// 4. Load data tables
	printSection("data")

	targetTable, err := data.LoadTargetTable(filepath.Join(cfg.Sim.DataDir, "target_list.yaml"))
	if err != nil {
		return fmt.Errorf("load target table: %w", err)
	}
	printStat("target templates", targetTable.Count())

	routeTable, err := data.LoadRouteTable(filepath.Join(cfg.Sim.DataDir, "route_list.yaml"))
	if err != nil {
		return fmt.Errorf("load route table: %w", err)
	}
	printStat("routes", routeTable.Count())

	placements, err := data.LoadLayout(filepath.Join(cfg.Sim.DataDir, cfg.Sim.LayoutFile))
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}

	// 5. Lua director engine
	var luaEngine *scripting.Engine
	if cfg.Director.Enabled {
		luaEngine, err = scripting.NewEngine(cfg.Director.ScriptDir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer luaEngine.Close()
		printOK("lua scripts loaded")
	}

	// 6. Scene, pool, and boot spawns
	sc := scene.New()
	bus := event.NewBus()

	staticDefault := targetTable.DefaultFor(component.KindStatic)
	movingDefault := targetTable.DefaultFor(component.KindMoving)
	pool := scene.NewTargetPool(sc, bus, log, scene.Defaults{
		StaticModel:   staticDefault.Model,
		MovingModel:   movingDefault.Model,
		CollisionMask: staticDefault.CollisionMask,
		Speed:         cfg.Movement.DefaultSpeed,
	})

	spawned := spawnLayout(sc, pool, targetTable, routeTable, placements, cfg.Movement.DefaultSpeed, log)
	printStat("targets spawned", spawned)
	fmt.Println()

	// 7. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewMovementSystem(sc, bus, log))
	telemetry := system.NewTelemetrySystem(bus, pool, 600, log)
	runner.Register(telemetry)
	if luaEngine != nil {
		runner.Register(system.NewDirectorSystem(sc, pool, routeTable, luaEngine, cfg.Director.IntervalTicks, log))
	}
	runner.Register(system.NewCleanupSystem(sc.World))

	// 8. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tickRate := cfg.Sim.TickRate.Duration
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", tickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(tickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			pool.DestroyAll()
			sc.World.FlushDestroyQueue()
			if sessionRepo != nil {
				saveSession(sessionRepo, cfg.Server.Name, startedAt, telemetry.Snapshot(), log)
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// spawnLayout creates target instances from the layout file and applies
// template presentation and route assignments on top of the pool's
// defaults. Unknown templates or routes are skipped with a warning.
func spawnLayout(sc *scene.Scene, pool *scene.TargetPool, targets *data.TargetTable, routes *data.RouteTable, placements []data.PlacementEntry, defaultSpeed float64, log *zap.Logger) int {
	total := 0
	for _, pl := range placements {
		tmpl := targets.Get(pl.Template)
		if tmpl == nil {
			log.Warn("layout: unknown template", zap.String("template", pl.Template))
			continue
		}
		kind, err := tmpl.TargetKind()
		if err != nil {
			log.Warn("layout: bad template kind", zap.Error(err))
			continue
		}

		var waypoints []mgl64.Vec3
		if kind == component.KindMoving {
			var ok bool
			waypoints, ok = routes.Get(pl.Route)
			if !ok {
				log.Warn("layout: unknown route",
					zap.String("template", pl.Template), zap.String("route", pl.Route))
				continue
			}
		}

		for i := 0; i < pl.Count; i++ {
			pos := mgl64.Vec3{pl.X + float64(i)*pl.SpacingX, pl.Y, pl.Z}
			id := pool.Create(kind, pos)

			if r, ok := sc.Renderables.Get(id); ok {
				r.Model = tmpl.Model
				r.CollisionMask = tmpl.CollisionMask
			}
			if tf, ok := sc.Transforms.Get(id); ok {
				tf.Scale = mgl64.Vec3{tmpl.Scale, tmpl.Scale, tmpl.Scale}
			}

			if kind == component.KindMoving {
				mv, ok := sc.Movings.Get(id)
				if !ok {
					continue
				}
				route := make([]mgl64.Vec3, len(waypoints))
				copy(route, waypoints)
				mv.Waypoints = route
				mv.WaypointIndex = 0
				switch {
				case pl.Speed > 0:
					mv.Speed = pl.Speed
				case tmpl.Speed > 0:
					mv.Speed = tmpl.Speed
				default:
					mv.Speed = defaultSpeed
				}
				mv.Processing = pl.Processing
			}
			total++
		}
	}
	return total
}

// saveSession persists the run's telemetry counters as one session row.
func saveSession(repo *persist.SessionRepo, serverName string, startedAt time.Time, stats system.Stats, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := &persist.SessionRow{
		ServerName:       serverName,
		StartedAt:        startedAt,
		EndedAt:          time.Now(),
		Ticks:            stats.Ticks,
		StaticSpawned:    stats.StaticSpawned,
		MovingSpawned:    stats.MovingSpawned,
		Reused:           stats.Reused,
		Disabled:         stats.Disabled,
		Destroyed:        stats.Destroyed,
		WaypointsReached: stats.WaypointsReached,
	}
	if err := repo.SaveSession(ctx, row); err != nil {
		log.Error("save session failed", zap.Error(err))
		return
	}
	log.Info("session saved", zap.Int64("ticks", stats.Ticks))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
