// routeconv converts editor waypoint exports (CSV) into the YAML route
// file the range server loads at boot.
//
// Input rows: route_name,x,y,z — one waypoint per row, grouped by name,
// row order preserved within a route.
//
// Usage:
//
//	go run ./cmd/routeconv waypoints.csv > data/yaml/route_list.yaml
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type routePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type routeEntry struct {
	Name      string       `yaml:"name"`
	Waypoints []routePoint `yaml:"waypoints"`
}

type routeFile struct {
	Routes []routeEntry `yaml:"routes"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "routeconv: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: routeconv <waypoints.csv>")
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	// Preserve first-seen route order so the YAML diff stays stable when
	// the editor re-exports.
	var order []string
	byName := make(map[string][]routePoint)

	for i, row := range rows {
		if len(row) != 4 {
			return fmt.Errorf("row %d: want 4 fields, got %d", i+1, len(row))
		}
		name := row[0]
		if name == "route_name" && i == 0 {
			continue // header row
		}
		var pt routePoint
		if pt.X, err = strconv.ParseFloat(row[1], 64); err != nil {
			return fmt.Errorf("row %d: bad x: %w", i+1, err)
		}
		if pt.Y, err = strconv.ParseFloat(row[2], 64); err != nil {
			return fmt.Errorf("row %d: bad y: %w", i+1, err)
		}
		if pt.Z, err = strconv.ParseFloat(row[3], 64); err != nil {
			return fmt.Errorf("row %d: bad z: %w", i+1, err)
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], pt)
	}

	out := routeFile{Routes: make([]routeEntry, 0, len(order))}
	for _, name := range order {
		out.Routes = append(out.Routes, routeEntry{Name: name, Waypoints: byName[name]})
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
