package data

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// RoutePoint is one waypoint of a route as stored in YAML.
type RoutePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type routeEntry struct {
	Name      string       `yaml:"name"`
	Waypoints []RoutePoint `yaml:"waypoints"`
}

type routeListFile struct {
	Routes []routeEntry `yaml:"routes"`
}

// RouteTable holds named closed waypoint loops. A moving target assigned
// a route cycles its waypoints forever while it is processing.
type RouteTable struct {
	routes map[string][]mgl64.Vec3
}

// LoadRouteTable loads routes from a YAML file. An empty waypoint list is
// a configuration error: the movement scheduler has no defined behavior
// for a route with no points, so we fail fast here instead.
func LoadRouteTable(path string) (*RouteTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route_list: %w", err)
	}
	var f routeListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse route_list: %w", err)
	}

	t := &RouteTable{routes: make(map[string][]mgl64.Vec3, len(f.Routes))}
	for _, r := range f.Routes {
		if r.Name == "" {
			return nil, fmt.Errorf("route_list %s: route with no name", path)
		}
		if len(r.Waypoints) == 0 {
			return nil, fmt.Errorf("route_list %s: route %q has no waypoints", path, r.Name)
		}
		if _, dup := t.routes[r.Name]; dup {
			return nil, fmt.Errorf("route_list %s: duplicate route %q", path, r.Name)
		}
		pts := make([]mgl64.Vec3, len(r.Waypoints))
		for i, p := range r.Waypoints {
			if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
				return nil, fmt.Errorf("route_list %s: route %q waypoint #%d is not finite", path, r.Name, i+1)
			}
			pts[i] = mgl64.Vec3{p.X, p.Y, p.Z}
		}
		t.routes[r.Name] = pts
	}
	return t, nil
}

// Get returns a copy of the named route so callers can mutate their
// waypoint slice without aliasing the table.
func (t *RouteTable) Get(name string) ([]mgl64.Vec3, bool) {
	r, ok := t.routes[name]
	if !ok {
		return nil, false
	}
	out := make([]mgl64.Vec3, len(r))
	copy(out, r)
	return out, true
}

// Count returns the number of loaded routes.
func (t *RouteTable) Count() int {
	return len(t.routes)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
