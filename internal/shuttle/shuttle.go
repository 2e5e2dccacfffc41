// Package shuttle replaces the shuttle a quest generates with the owning
// faction's own transport ship, and points the transport ship generator at
// the matching def.
package shuttle

import (
	"fmt"
	"log/slog"

	"github.com/Falloutization/royalty/internal/dispatcher"
	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/internal/slate"
	"github.com/Falloutization/royalty/pkg/core"
)

// Hook names.
const (
	GenerateShuttleHook       = "questnode:generateShuttle"
	GenerateTransportShipHook = "questnode:generateTransportShip"
)

// Catalog resolves faction overrides.
type Catalog interface {
	FactionOverride(f *core.Faction) (*core.FactionExtension, bool)
}

// Spawner creates things.
type Spawner interface {
	MakeThing(def *core.ThingDef) *core.Thing
	SetFaction(t *core.Thing, f *core.Faction)
}

// ShuttleCall is the target of GenerateShuttleHook.
type ShuttleCall struct {
	Node  *core.GenerateShuttleNode
	Slate *slate.Slate
}

// TransportShipCall is the target of GenerateTransportShipHook.
type TransportShipCall struct {
	Node  *core.GenerateTransportShipNode
	Slate *slate.Slate
}

// Generator holds the quest node hooks.
type Generator struct {
	catalog Catalog
	spawner Spawner
	logger  *slog.Logger
}

// New returns a Generator.
func New(catalog Catalog, spawner Spawner, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{catalog: catalog, spawner: spawner, logger: logger}
}

// HandleGenerateShuttle is the dispatcher entry point for GenerateShuttleHook.
func (g *Generator) HandleGenerateShuttle(e dispatcher.Event) (intercept.Result, error) {
	call, ok := e.Target.(*ShuttleCall)
	if !ok || call == nil || call.Node == nil || call.Slate == nil {
		return intercept.Defer(), fmt.Errorf("%w: %T", intercept.ErrUnexpectedTarget, e.Target)
	}
	return g.GenerateShuttle(call.Node, call.Slate)
}

// HandleGenerateTransportShip is the dispatcher entry point for
// GenerateTransportShipHook.
func (g *Generator) HandleGenerateTransportShip(e dispatcher.Event) (intercept.Result, error) {
	call, ok := e.Target.(*TransportShipCall)
	if !ok || call == nil || call.Node == nil || call.Slate == nil {
		return intercept.Defer(), fmt.Errorf("%w: %T", intercept.ErrUnexpectedTarget, e.Target)
	}
	return g.GenerateTransportShip(call.Node, call.Slate)
}

// GenerateShuttle makes the owning faction's ship thing in place of the
// host's shuttle, configures it from the slate and stores it under the
// node's StoreAs key.
func (g *Generator) GenerateShuttle(node *core.GenerateShuttleNode, s *slate.Slate) (intercept.Result, error) {
	faction, ok := slate.Lookup[*core.Faction](s, node.OwningFaction)
	if !ok || faction == nil {
		return intercept.Defer(), fmt.Errorf("%w: slate key %q", intercept.ErrMissingOwner, node.OwningFaction)
	}

	ext, ok := g.catalog.FactionOverride(faction)
	if !ok || ext.TransportShipDef.ShipThing == nil {
		return intercept.Defer(), fmt.Errorf("%w: faction %s", intercept.ErrMissingDefinition, faction.Name)
	}
	thingDef := ext.TransportShipDef.ShipThing
	if !thingDef.HasComp(core.CompShuttle) {
		return intercept.Defer(), fmt.Errorf("%w: %s", intercept.ErrMissingComponent, thingDef.Name)
	}

	thing := g.spawner.MakeThing(thingDef)
	if thing.Shuttle == nil {
		return intercept.Defer(), fmt.Errorf("%w: %s", intercept.ErrMissingComponent, thing.ID)
	}
	g.spawner.SetFaction(thing, faction)
	configure(thing.Shuttle, node, s)

	if node.StoreAs != "" {
		s.Set(node.StoreAs, thing)
	}

	g.logger.Debug("generated faction shuttle", "faction", faction.Name, "thing", thing.ID, "storeAs", node.StoreAs)
	return intercept.Override(thing), nil
}

func configure(comp *core.ShuttleComp, node *core.GenerateShuttleNode, s *slate.Slate) {
	if pawns, ok := slate.Lookup[[]*core.Pawn](s, node.RequiredPawns); ok {
		comp.RequiredPawns = append(comp.RequiredPawns, pawns...)
	}
	if items, ok := slate.Lookup[[]core.ThingCount](s, node.RequiredItems); ok {
		comp.RequiredItems = append(comp.RequiredItems, items...)
	}

	comp.AcceptColonists, _ = s.GetBool(node.AcceptColonists)
	comp.AcceptChildren = true
	if v, ok := s.GetBool(node.AcceptChildren); ok {
		comp.AcceptChildren = v
	}
	comp.OnlyAcceptColonists, _ = s.GetBool(node.OnlyAcceptColonists)
	comp.OnlyAcceptHealthy, _ = s.GetBool(node.OnlyAcceptHealthy)
	comp.RequiredColonistCount, _ = s.GetInt(node.RequireColonistCount)
	comp.PermitShuttle, _ = s.GetBool(node.PermitShuttle)
	comp.MinAge, _ = s.GetInt(node.MinAge)

	if mass, ok := s.GetFloat(node.OverrideMass); ok && mass > 0 {
		comp.MassCapacityOverride = mass
	}
}

// GenerateTransportShip swaps the node's def for the ship thing faction's
// transport ship def. The host's own generation then runs with it, so the
// result is always Defer.
func (g *Generator) GenerateTransportShip(node *core.GenerateTransportShipNode, s *slate.Slate) (intercept.Result, error) {
	thing, ok := slate.Lookup[*core.Thing](s, node.ShipThing)
	if !ok || thing == nil {
		return intercept.Defer(), fmt.Errorf("%w: ship thing %q", intercept.ErrMissingSlateValue, node.ShipThing)
	}
	if thing.Faction == nil {
		return intercept.Defer(), fmt.Errorf("%w: ship thing %s has no faction", intercept.ErrMissingOwner, thing.ID)
	}
	ext, ok := g.catalog.FactionOverride(thing.Faction)
	if !ok {
		return intercept.Defer(), fmt.Errorf("%w: faction %s", intercept.ErrMissingDefinition, thing.Faction.Name)
	}

	prev := "<nil>"
	if node.Def != nil {
		prev = node.Def.Name
	}
	node.Def = ext.TransportShipDef

	g.logger.Debug("swapped transport ship def", "from", prev, "to", node.Def.Name, "thing", thing.ID)
	return intercept.Defer(), nil
}
