package worldmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a map.
type File struct {
	Name string   `yaml:"name"`
	Seed uint64   `yaml:"seed"`
	Rows []string `yaml:"rows"`
}

// Load reads a YAML map. A non-zero seed replaces the file's seed.
func Load(path string, seed uint64) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if seed == 0 {
		seed = f.Seed
	}
	m, err := Parse(f.Name, f.Rows, seed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
