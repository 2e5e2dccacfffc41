// pkg/core/cell.go
package core

import "fmt"

// Cell is a position on the map grid. Y is unused by the host's 2D maps but
// kept so cells round-trip through the host's 3-component vectors.
type Cell struct {
	X int
	Y int
	Z int
}

// InvalidCell is the sentinel the host uses for "no cell found".
var InvalidCell = Cell{X: -1000, Y: -1000, Z: -1000}

// IsValid reports whether c is a real cell rather than the invalid sentinel.
func (c Cell) IsValid() bool {
	return c.X != InvalidCell.X || c.Y != InvalidCell.Y || c.Z != InvalidCell.Z
}

// Offset returns c moved by dx, dz.
func (c Cell) Offset(dx, dz int) Cell {
	return Cell{X: c.X + dx, Y: c.Y, Z: c.Z + dz}
}

func (c Cell) String() string {
	if !c.IsValid() {
		return "(invalid)"
	}
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Size is a rectangular footprint in cells (width along X, height along Z).
type Size struct {
	X int `yaml:"x" json:"x"`
	Z int `yaml:"z" json:"z"`
}

// Pad grows the footprint by margin cells on every side.
func (s Size) Pad(margin int) Size {
	return Size{X: s.X + 2*margin, Z: s.Z + 2*margin}
}

// IsZero reports whether the footprint is unset.
func (s Size) IsZero() bool {
	return s.X <= 0 || s.Z <= 0
}

// Area returns the number of cells covered by the footprint.
func (s Size) Area() int {
	if s.IsZero() {
		return 0
	}
	return s.X * s.Z
}

// Cells returns the cells covered by a footprint of size s centred on c.
// Even dimensions extend one further toward the negative axis, matching the
// host's occupied-rect convention.
func (s Size) Cells(c Cell) []Cell {
	if s.IsZero() {
		return []Cell{c}
	}
	minX := c.X - s.X/2
	minZ := c.Z - s.Z/2
	out := make([]Cell, 0, s.Area())
	for dz := 0; dz < s.Z; dz++ {
		for dx := 0; dx < s.X; dx++ {
			out = append(out, Cell{X: minX + dx, Y: c.Y, Z: minZ + dz})
		}
	}
	return out
}
