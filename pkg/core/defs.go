// pkg/core/defs.go
package core

// CompShuttle is the component name that gives a thing shuttle behaviour
// (required pawns, acceptance rules, mass override).
const CompShuttle = "CompShuttle"

// ThingDef is the template a thing is spawned from.
type ThingDef struct {
	Name  string
	Label string
	Size  Size
	Comps []string
}

// HasComp reports whether things spawned from this def carry the named component.
func (d *ThingDef) HasComp(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Comps {
		if c == name {
			return true
		}
	}
	return false
}

// TransportShipDef describes a kind of transport ship and the thing that
// represents it on the map.
type TransportShipDef struct {
	Name      string
	ShipThing *ThingDef
}

// Footprint returns the size of the ship thing, or the zero size if the def
// has no ship thing.
func (d *TransportShipDef) Footprint() Size {
	if d == nil || d.ShipThing == nil {
		return Size{}
	}
	return d.ShipThing.Size
}

// FactionExtension is the per-faction mod extension carrying an optional
// transport ship override.
type FactionExtension struct {
	TransportShipDef *TransportShipDef
}

// FactionDef is the static definition of a faction.
type FactionDef struct {
	Name      string
	Label     string
	Extension *FactionExtension
}

// Faction is a live faction instance in a game.
type Faction struct {
	ID   int
	Name string
	Def  *FactionDef
}

// Pawn is an actor that can board a shuttle.
type Pawn struct {
	ID       int
	Name     string
	Age      int
	Colonist bool
}

// ThingCount is a required item entry on a shuttle.
type ThingCount struct {
	Def   *ThingDef
	Count int
}
