// Package worldmap is an in-memory map grid that answers the landing
// queries. Maps are drawn as ASCII rows, one character per cell:
//
//	.  open ground
//	#  wall (impassable, blocks landing)
//	~  water (not standable)
//	R  roofed ground
//	I  indoors (roofed)
//	F  fogged ground
//	L  ship landing area
//	B  ship landing area with a thing on it
//	C  colony centre (open ground)
package worldmap

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Falloutization/royalty/internal/landing"
	"github.com/Falloutization/royalty/pkg/core"
)

// Terrain is the content of one cell.
type Terrain byte

const (
	Open         Terrain = '.'
	Wall         Terrain = '#'
	Water        Terrain = '~'
	Roofed       Terrain = 'R'
	Indoors      Terrain = 'I'
	Fogged       Terrain = 'F'
	Landing      Terrain = 'L'
	BlockedLand  Terrain = 'B'
	ColonyCentre Terrain = 'C'
)

const (
	// dropNearRadius bounds the drop-near search around its centre.
	dropNearRadius = 12
	// randomAttempts bounds RandomDropSpot before it gives up.
	randomAttempts = 200
)

// Map is a rectangular grid. X runs along a row, Z down the rows.
type Map struct {
	Name   string
	Width  int
	Height int

	cells  [][]Terrain
	things map[core.Cell]*core.Thing
	colony core.Cell
	rng    *rand.Rand
}

var _ landing.Grid = (*Map)(nil)

// Parse builds a map from ASCII rows. All rows must be the same width.
func Parse(name string, rows []string, seed uint64) (*Map, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("map has no cells")
	}
	m := &Map{
		Name:   name,
		Width:  len(rows[0]),
		Height: len(rows),
		cells:  make([][]Terrain, len(rows)),
		things: make(map[core.Cell]*core.Thing),
		colony: core.InvalidCell,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	for z, row := range rows {
		if len(row) != m.Width {
			return nil, fmt.Errorf("row %d is %d cells wide, want %d", z, len(row), m.Width)
		}
		m.cells[z] = make([]Terrain, m.Width)
		for x := 0; x < m.Width; x++ {
			t := Terrain(row[x])
			c := core.Cell{X: x, Z: z}
			switch t {
			case Open, Water, Roofed, Indoors, Fogged, Landing:
			case Wall:
				m.things[c] = &core.Thing{ID: fmt.Sprintf("Wall_%d_%d", x, z), Def: wallDef}
			case BlockedLand:
				m.things[c] = &core.Thing{ID: fmt.Sprintf("Crate_%d_%d", x, z), Def: crateDef}
			case ColonyCentre:
				if m.colony.IsValid() {
					return nil, fmt.Errorf("second colony centre at %s", c)
				}
				m.colony = c
			default:
				return nil, fmt.Errorf("unknown terrain %q at %s", row[x], c)
			}
			m.cells[z][x] = t
		}
	}
	return m, nil
}

var (
	wallDef  = &core.ThingDef{Name: "Wall", Size: core.Size{X: 1, Z: 1}}
	crateDef = &core.ThingDef{Name: "Crate", Size: core.Size{X: 1, Z: 1}}
)

// InBounds reports whether c lies on the map.
func (m *Map) InBounds(c core.Cell) bool {
	return c.X >= 0 && c.X < m.Width && c.Z >= 0 && c.Z < m.Height
}

// At returns the terrain of c, or Wall outside the map.
func (m *Map) At(c core.Cell) Terrain {
	if !m.InBounds(c) {
		return Wall
	}
	return m.cells[c.Z][c.X]
}

// ThingAt returns the thing occupying c.
func (m *Map) ThingAt(c core.Cell) (*core.Thing, bool) {
	t, ok := m.things[c]
	return t, ok
}

// Colony returns the colony centre, if the map has one.
func (m *Map) Colony() (core.Cell, bool) {
	return m.colony, m.colony.IsValid()
}

// Standable reports whether a pawn can stand on c.
func (m *Map) Standable(c core.Cell) bool {
	switch m.At(c) {
	case Wall, Water, BlockedLand:
		return false
	}
	return true
}

// clear reports whether a ship may set down on c under opts.
func (m *Map) clear(c core.Cell, opts landing.DropSpotOptions) bool {
	if !m.Standable(c) {
		return false
	}
	switch m.At(c) {
	case Fogged:
		return opts.AllowFogged
	case Roofed:
		return opts.CanRoofPunch
	case Indoors:
		return opts.AllowIndoors && opts.CanRoofPunch
	}
	return true
}

func (m *Map) fits(center core.Cell, size core.Size, opts landing.DropSpotOptions) bool {
	for _, c := range size.Cells(center) {
		if !m.InBounds(c) || !m.clear(c, opts) {
			return false
		}
	}
	return true
}

// spiral visits the square perimeter of each radius from minR to maxR
// around center in a fixed order until visit returns true.
func spiral(center core.Cell, minR, maxR int, visit func(core.Cell) bool) (core.Cell, bool) {
	if minR < 0 {
		minR = 0
	}
	for r := minR; r <= maxR; r++ {
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx) != r && abs(dz) != r {
					continue
				}
				c := center.Offset(dx, dz)
				if visit(c) {
					return c, true
				}
			}
		}
	}
	return core.InvalidCell, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m *Map) centre() core.Cell {
	if m.colony.IsValid() {
		return m.colony
	}
	return core.Cell{X: m.Width / 2, Z: m.Height / 2}
}

func (m *Map) span() int {
	return max(m.Width, m.Height)
}

// TryFindShipLandingArea looks for a footprint lying wholly on landing area
// cells. A footprint spoilt only by things on the area reports the first
// such thing.
func (m *Map) TryFindShipLandingArea(size core.Size) (core.Cell, *core.Thing, bool) {
	var blocking *core.Thing
	for z := 0; z < m.Height; z++ {
		for x := 0; x < m.Width; x++ {
			center := core.Cell{X: x, Z: z}
			onArea, thing := m.landingFootprint(center, size)
			if !onArea {
				continue
			}
			if thing == nil {
				return center, blocking, true
			}
			if blocking == nil {
				blocking = thing
			}
		}
	}
	return core.InvalidCell, blocking, false
}

func (m *Map) landingFootprint(center core.Cell, size core.Size) (bool, *core.Thing) {
	var first *core.Thing
	for _, c := range size.Cells(center) {
		switch m.At(c) {
		case Landing:
		case BlockedLand:
			if first == nil {
				first = m.things[c]
			}
		default:
			return false, nil
		}
	}
	return true, first
}

// TryFindSafeLandingSpotCloseToColony spirals out from the colony centre.
func (m *Map) TryFindSafeLandingSpotCloseToColony(size core.Size, _ *core.Faction) (core.Cell, bool) {
	colony, ok := m.Colony()
	if !ok {
		return core.InvalidCell, false
	}
	return spiral(colony, 0, m.span(), func(c core.Cell) bool {
		return m.fits(c, size, landing.DropSpotOptions{})
	})
}

// FindSafeLandingSpot searches at most params.Rings rings of the radius band
// around the colony centre, or the map centre when there is no colony.
func (m *Map) FindSafeLandingSpot(_ *core.Faction, params landing.SafeSpotParams) (core.Cell, bool) {
	maxR := params.MaxRadius
	if params.Rings > 0 && params.MinRadius+params.Rings-1 < maxR {
		maxR = params.MinRadius + params.Rings - 1
	}
	return spiral(m.centre(), params.MinRadius, maxR, func(c core.Cell) bool {
		return m.fits(c, params.Size, landing.DropSpotOptions{})
	})
}

// RandomDropSpot picks a random cell, standable and unfogged if asked.
func (m *Map) RandomDropSpot(standableOnly bool) (core.Cell, bool) {
	for i := 0; i < randomAttempts; i++ {
		c := core.Cell{X: m.rng.IntN(m.Width), Z: m.rng.IntN(m.Height)}
		if !standableOnly {
			return c, true
		}
		if m.Standable(c) && m.At(c) != Fogged {
			return c, true
		}
	}
	return core.InvalidCell, false
}

// TryFindDropSpotNear spirals out from center for a footprint matching opts.
func (m *Map) TryFindDropSpotNear(center core.Cell, opts landing.DropSpotOptions) (core.Cell, bool) {
	if !m.InBounds(center) {
		return core.InvalidCell, false
	}
	return spiral(center, 0, dropNearRadius, func(c core.Cell) bool {
		return m.fits(c, opts.Size, opts)
	})
}
