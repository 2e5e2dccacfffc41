package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_IsValid(t *testing.T) {
	assert.False(t, InvalidCell.IsValid())
	assert.True(t, Cell{}.IsValid())
	assert.True(t, Cell{X: 4, Z: 9}.IsValid())
	assert.Equal(t, "(invalid)", InvalidCell.String())
	assert.Equal(t, "(4, 0, 9)", Cell{X: 4, Z: 9}.String())
}

func TestSize_Pad(t *testing.T) {
	assert.Equal(t, Size{X: 12, Z: 10}, Size{X: 10, Z: 8}.Pad(1))
	assert.Equal(t, Size{X: 5, Z: 3}, Size{X: 5, Z: 3}.Pad(0))
}

func TestSize_Cells(t *testing.T) {
	cells := Size{X: 2, Z: 3}.Cells(Cell{X: 10, Z: 10})
	require.Len(t, cells, 6)
	assert.Equal(t, Cell{X: 9, Z: 9}, cells[0])
	assert.Equal(t, Cell{X: 10, Z: 11}, cells[5])

	assert.Equal(t, []Cell{{X: 1, Z: 1}}, Size{}.Cells(Cell{X: 1, Z: 1}))
}

func TestQuest_IndexOfUsesIdentity(t *testing.T) {
	a := &ShipJobStep{InSignal: "s", Job: JobArrive}
	b := &ShipJobStep{InSignal: "s", Job: JobArrive}
	q := &Quest{ID: 7, Steps: []Step{&GenericStep{Name: "x"}, a}}

	i, ok := q.IndexOf(a)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = q.IndexOf(b)
	assert.False(t, ok, "a value-equal step that is not in the sequence must not be found")

	assert.Equal(t, "Quest7.pickupShipThing", q.PickupShipTag())
}

func TestThingDef_HasComp(t *testing.T) {
	def := &ThingDef{Name: "Shuttle", Comps: []string{CompShuttle}}
	assert.True(t, def.HasComp(CompShuttle))
	assert.False(t, (&ThingDef{Name: "Rock"}).HasComp(CompShuttle))

	var nilDef *ThingDef
	assert.False(t, nilDef.HasComp(CompShuttle))
}
