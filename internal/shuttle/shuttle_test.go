package shuttle

import (
	"testing"

	"github.com/Falloutization/royalty/internal/cache"
	"github.com/Falloutization/royalty/internal/defs"
	"github.com/Falloutization/royalty/internal/dispatcher"
	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/internal/slate"
	"github.com/Falloutization/royalty/internal/spawn"
	"github.com/Falloutization/royalty/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T) (*Generator, *defs.Catalog, *cache.ThingCache) {
	t.Helper()
	catalog, err := defs.Build(defs.File{
		ThingDefs: []defs.ThingDefSpec{
			{Name: "FCP_Vertibird", Size: core.Size{X: 10, Z: 8}, Comps: []string{core.CompShuttle}},
			{Name: "Crate"},
		},
		TransportShipDefs: []defs.TransportShipDefSpec{
			{Name: "FCP_TransportShip_Vertibird", ShipThing: "FCP_Vertibird"},
			{Name: "Ship_Crate", ShipThing: "Crate"},
			{Name: "Ship_Hollow"},
		},
		FactionDefs: []defs.FactionDefSpec{
			{Name: "FCP_Brotherhood", TransportShipDef: "FCP_TransportShip_Vertibird"},
			{Name: "Empire"},
			{Name: "Crates", TransportShipDef: "Ship_Crate"},
			{Name: "Hollow", TransportShipDef: "Ship_Hollow"},
		},
	})
	require.NoError(t, err)
	c := cache.NewThingCache()
	return New(catalog, spawn.New(c), nil), catalog, c
}

func faction(t *testing.T, catalog *defs.Catalog, name string) *core.Faction {
	t.Helper()
	def, ok := catalog.FactionDef(name)
	require.True(t, ok)
	return &core.Faction{ID: 5, Name: name, Def: def}
}

func shuttleNode() *core.GenerateShuttleNode {
	return &core.GenerateShuttleNode{
		OwningFaction:        "asker",
		RequiredPawns:        "requiredPawns",
		RequiredItems:        "requiredItems",
		AcceptColonists:      "acceptColonists",
		AcceptChildren:       "acceptChildren",
		OnlyAcceptColonists:  "onlyAcceptColonists",
		OnlyAcceptHealthy:    "onlyAcceptHealthy",
		RequireColonistCount: "requireColonistCount",
		PermitShuttle:        "permitShuttle",
		MinAge:               "minAge",
		OverrideMass:         "overrideMass",
		StoreAs:              "pickupShipThing",
	}
}

func TestGenerateShuttle_CopiesSlate(t *testing.T) {
	g, catalog, c := newGenerator(t)
	bos := faction(t, catalog, "FCP_Brotherhood")
	pawns := []*core.Pawn{{ID: 1}, {ID: 2}}
	items := []core.ThingCount{{Def: &core.ThingDef{Name: "Silver"}, Count: 500}}
	s := slate.FromMap(map[string]any{
		"asker":                bos,
		"requiredPawns":        pawns,
		"requiredItems":        items,
		"acceptColonists":      true,
		"acceptChildren":       false,
		"onlyAcceptColonists":  true,
		"onlyAcceptHealthy":    true,
		"requireColonistCount": 3,
		"permitShuttle":        true,
		"minAge":               16,
		"overrideMass":         1200.5,
	})

	result, err := g.GenerateShuttle(shuttleNode(), s)
	require.NoError(t, err)
	require.True(t, result.Overridden())

	thing, ok := result.Value().(*core.Thing)
	require.True(t, ok)
	assert.Equal(t, "FCP_Vertibird", thing.Def.Name)
	assert.Same(t, bos, thing.Faction)

	comp := thing.Shuttle
	require.NotNil(t, comp)
	assert.Equal(t, pawns, comp.RequiredPawns)
	assert.Equal(t, items, comp.RequiredItems)
	assert.True(t, comp.AcceptColonists)
	assert.False(t, comp.AcceptChildren)
	assert.True(t, comp.OnlyAcceptColonists)
	assert.True(t, comp.OnlyAcceptHealthy)
	assert.Equal(t, 3, comp.RequiredColonistCount)
	assert.True(t, comp.PermitShuttle)
	assert.Equal(t, 16, comp.MinAge)
	assert.Equal(t, 1200.5, comp.MassCapacityOverride)

	stored, ok := slate.Lookup[*core.Thing](s, "pickupShipThing")
	require.True(t, ok)
	assert.Same(t, thing, stored)

	_, ok = c.Get(thing.ID)
	assert.True(t, ok)
}

func TestGenerateShuttle_Defaults(t *testing.T) {
	g, catalog, _ := newGenerator(t)
	s := slate.FromMap(map[string]any{
		"asker":        faction(t, catalog, "FCP_Brotherhood"),
		"overrideMass": -5.0,
	})

	result, err := g.GenerateShuttle(shuttleNode(), s)
	require.NoError(t, err)

	comp := result.Value().(*core.Thing).Shuttle
	assert.Empty(t, comp.RequiredPawns)
	assert.Empty(t, comp.RequiredItems)
	assert.False(t, comp.AcceptColonists)
	assert.True(t, comp.AcceptChildren, "accept children defaults to true")
	assert.False(t, comp.OnlyAcceptColonists)
	assert.False(t, comp.OnlyAcceptHealthy)
	assert.Zero(t, comp.RequiredColonistCount)
	assert.False(t, comp.PermitShuttle)
	assert.Zero(t, comp.MinAge)
	assert.Zero(t, comp.MassCapacityOverride, "non-positive mass is ignored")
}

func TestGenerateShuttle_Declines(t *testing.T) {
	tests := []struct {
		name  string
		asker string
		want  error
	}{
		{"no owning faction", "", intercept.ErrMissingOwner},
		{"faction without override", "Empire", intercept.ErrMissingDefinition},
		{"override without ship thing", "Hollow", intercept.ErrMissingDefinition},
		{"ship thing without shuttle comp", "Crates", intercept.ErrMissingComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, catalog, c := newGenerator(t)
			s := slate.New()
			if tt.asker != "" {
				s.Set("asker", faction(t, catalog, tt.asker))
			}

			result, err := g.GenerateShuttle(shuttleNode(), s)
			require.ErrorIs(t, err, tt.want)
			assert.False(t, result.Overridden())
			assert.False(t, s.Exists("pickupShipThing"))
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestGenerateTransportShip_SwapsDef(t *testing.T) {
	g, catalog, _ := newGenerator(t)
	vanilla := &core.TransportShipDef{Name: "Ship_Shuttle"}
	thing := &core.Thing{ID: "FCP_Vertibird_1", Faction: faction(t, catalog, "FCP_Brotherhood")}
	node := &core.GenerateTransportShipNode{Def: vanilla, ShipThing: "pickupShipThing"}
	s := slate.FromMap(map[string]any{"pickupShipThing": thing})

	result, err := g.GenerateTransportShip(node, s)
	require.NoError(t, err)
	assert.False(t, result.Overridden(), "host generation still runs")
	assert.Equal(t, "FCP_TransportShip_Vertibird", node.Def.Name)
}

func TestGenerateTransportShip_Declines(t *testing.T) {
	g, catalog, _ := newGenerator(t)
	vanilla := &core.TransportShipDef{Name: "Ship_Shuttle"}

	tests := []struct {
		name  string
		slate map[string]any
		want  error
	}{
		{"no ship thing", map[string]any{}, intercept.ErrMissingSlateValue},
		{"ship thing without faction", map[string]any{"ship": &core.Thing{ID: "x"}}, intercept.ErrMissingOwner},
		{"faction without override", map[string]any{"ship": &core.Thing{ID: "x", Faction: faction(t, catalog, "Empire")}}, intercept.ErrMissingDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &core.GenerateTransportShipNode{Def: vanilla, ShipThing: "ship"}
			_, err := g.GenerateTransportShip(node, slate.FromMap(tt.slate))
			require.ErrorIs(t, err, tt.want)
			assert.Same(t, vanilla, node.Def)
		})
	}
}

func TestHandlers_RejectWrongTarget(t *testing.T) {
	g, _, _ := newGenerator(t)

	_, err := g.HandleGenerateShuttle(dispatcher.Event{Hook: GenerateShuttleHook, Target: 42})
	assert.ErrorIs(t, err, intercept.ErrUnexpectedTarget)

	_, err = g.HandleGenerateTransportShip(dispatcher.Event{Hook: GenerateTransportShipHook, Target: &ShuttleCall{}})
	assert.ErrorIs(t, err, intercept.ErrUnexpectedTarget)
}

func TestHandleGenerateShuttle(t *testing.T) {
	g, catalog, _ := newGenerator(t)
	s := slate.FromMap(map[string]any{"asker": faction(t, catalog, "FCP_Brotherhood")})

	result, err := g.HandleGenerateShuttle(dispatcher.Event{
		Hook:   GenerateShuttleHook,
		Target: &ShuttleCall{Node: shuttleNode(), Slate: s},
	})
	require.NoError(t, err)
	assert.True(t, result.Overridden())
}
