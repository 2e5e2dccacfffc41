// Package spawn is the reference thing factory. Every thing it makes is
// registered in a ThingCache so hooks and the host can find it again.
package spawn

import (
	"github.com/Falloutization/royalty/internal/cache"
	"github.com/Falloutization/royalty/pkg/core"

	"github.com/google/uuid"
)

// Spawner makes things and transport ships.
type Spawner struct {
	cache *cache.ThingCache
	newID func() string
}

// New returns a spawner that registers things in c.
func New(c *cache.ThingCache) *Spawner {
	return &Spawner{cache: c, newID: uuid.NewString}
}

// MakeThing creates a thing from def. Things whose def carries
// CompShuttle get a shuttle component with the host defaults.
func (s *Spawner) MakeThing(def *core.ThingDef) *core.Thing {
	t := &core.Thing{
		ID:  def.Name + "_" + s.newID(),
		Def: def,
	}
	if def.HasComp(core.CompShuttle) {
		t.Shuttle = &core.ShuttleComp{AcceptChildren: true}
	}
	s.cache.Add(t)
	return t
}

// SetFaction assigns t to f.
func (s *Spawner) SetFaction(t *core.Thing, f *core.Faction) {
	t.Faction = f
}

// Tag adds a quest tag to t.
func (s *Spawner) Tag(t *core.Thing, tag string) {
	s.cache.Tag(t, tag)
}

// MakeTransportShip wraps thing in a transport ship of def with the given
// cargo. The ship is not started.
func (s *Spawner) MakeTransportShip(def *core.TransportShipDef, thing *core.Thing, cargo []*core.Thing) *core.TransportShip {
	return &core.TransportShip{
		Def:       def,
		ShipThing: thing,
		Cargo:     cargo,
	}
}
