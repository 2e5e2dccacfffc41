// Package defs loads the static definition database: thing templates,
// transport ship kinds and faction definitions with their mod extension.
package defs

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Falloutization/royalty/pkg/core"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defs.schema.json
var schemaJSON string

const schemaURL = "mem://royalty/defs.schema.json"

var schema = jsonschema.MustCompileString(schemaURL, schemaJSON)

// File is the on-disk layout of a defs file.
type File struct {
	ThingDefs         []ThingDefSpec         `yaml:"thing_defs"`
	TransportShipDefs []TransportShipDefSpec `yaml:"transport_ship_defs"`
	FactionDefs       []FactionDefSpec       `yaml:"faction_defs"`
}

type ThingDefSpec struct {
	Name  string    `yaml:"name"`
	Label string    `yaml:"label"`
	Size  core.Size `yaml:"size"`
	Comps []string  `yaml:"comps,omitempty"`
}

type TransportShipDefSpec struct {
	Name      string `yaml:"name"`
	ShipThing string `yaml:"ship_thing"`
}

type FactionDefSpec struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`

	// TransportShipDef is the faction's override, empty for none.
	TransportShipDef string `yaml:"transport_ship_def,omitempty"`
}

// Catalog resolves defs by name. It is read-only after Load.
type Catalog struct {
	things    map[string]*core.ThingDef
	ships     map[string]*core.TransportShipDef
	factions  map[string]*core.FactionDef
	factionIx []string
}

// Load reads and validates the defs file at path.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("defs path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. The document must match the defs
// schema and references between defs must resolve.
func Parse(b []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid defs: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return Build(f)
}

// Build resolves the references in f into a catalog.
func Build(f File) (*Catalog, error) {
	c := &Catalog{
		things:   make(map[string]*core.ThingDef),
		ships:    make(map[string]*core.TransportShipDef),
		factions: make(map[string]*core.FactionDef),
	}

	for _, t := range f.ThingDefs {
		if t.Name == "" {
			return nil, errors.New("thing def without name")
		}
		if _, dup := c.things[t.Name]; dup {
			return nil, fmt.Errorf("duplicate thing def %q", t.Name)
		}
		c.things[t.Name] = &core.ThingDef{Name: t.Name, Label: t.Label, Size: t.Size, Comps: t.Comps}
	}

	for _, s := range f.TransportShipDefs {
		if s.Name == "" {
			return nil, errors.New("transport ship def without name")
		}
		if _, dup := c.ships[s.Name]; dup {
			return nil, fmt.Errorf("duplicate transport ship def %q", s.Name)
		}
		def := &core.TransportShipDef{Name: s.Name}
		if s.ShipThing != "" {
			thing, ok := c.things[s.ShipThing]
			if !ok {
				return nil, fmt.Errorf("transport ship def %q: unknown ship thing %q", s.Name, s.ShipThing)
			}
			def.ShipThing = thing
		}
		c.ships[s.Name] = def
	}

	for _, fd := range f.FactionDefs {
		if fd.Name == "" {
			return nil, errors.New("faction def without name")
		}
		if _, dup := c.factions[fd.Name]; dup {
			return nil, fmt.Errorf("duplicate faction def %q", fd.Name)
		}
		def := &core.FactionDef{Name: fd.Name, Label: fd.Label}
		if fd.TransportShipDef != "" {
			ship, ok := c.ships[fd.TransportShipDef]
			if !ok {
				return nil, fmt.Errorf("faction def %q: unknown transport ship def %q", fd.Name, fd.TransportShipDef)
			}
			def.Extension = &core.FactionExtension{TransportShipDef: ship}
		}
		c.factions[fd.Name] = def
		c.factionIx = append(c.factionIx, fd.Name)
	}

	return c, nil
}

// ThingDef returns the named thing def.
func (c *Catalog) ThingDef(name string) (*core.ThingDef, bool) {
	d, ok := c.things[name]
	return d, ok
}

// TransportShipDef returns the named transport ship def.
func (c *Catalog) TransportShipDef(name string) (*core.TransportShipDef, bool) {
	d, ok := c.ships[name]
	return d, ok
}

// FactionDef returns the named faction def.
func (c *Catalog) FactionDef(name string) (*core.FactionDef, bool) {
	d, ok := c.factions[name]
	return d, ok
}

// FactionDefs returns the faction defs in file order.
func (c *Catalog) FactionDefs() []*core.FactionDef {
	out := make([]*core.FactionDef, 0, len(c.factionIx))
	for _, name := range c.factionIx {
		out = append(out, c.factions[name])
	}
	return out
}

// FactionOverride returns the mod extension of f's def if it names a
// transport ship.
func (c *Catalog) FactionOverride(f *core.Faction) (*core.FactionExtension, bool) {
	if f == nil || f.Def == nil || f.Def.Extension == nil {
		return nil, false
	}
	if f.Def.Extension.TransportShipDef == nil {
		return nil, false
	}
	return f.Def.Extension, true
}
