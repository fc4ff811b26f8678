package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlacementEntry describes one group of targets to spawn at boot.
type PlacementEntry struct {
	Template   string  `yaml:"template"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Z          float64 `yaml:"z"`
	Count      int     `yaml:"count"`
	SpacingX   float64 `yaml:"spacing_x"` // offset between repeated placements
	Route      string  `yaml:"route"`     // moving targets only
	Speed      float64 `yaml:"speed"`     // 0 = template/config default
	Processing bool    `yaml:"processing"`
}

type layoutFile struct {
	Placements []PlacementEntry `yaml:"placements"`
}

// LoadLayout loads the boot scene layout from a YAML file.
func LoadLayout(path string) ([]PlacementEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var f layoutFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	for i := range f.Placements {
		if f.Placements[i].Count <= 0 {
			f.Placements[i].Count = 1
		}
	}
	return f.Placements, nil
}
