// pkg/core/thing.go
package core

// Thing is a spawned runtime object.
type Thing struct {
	ID        string
	Def       *ThingDef
	Faction   *Faction
	QuestTags []string

	// Shuttle is set when Def carries CompShuttle.
	Shuttle *ShuttleComp
}

// HasQuestTag reports whether the thing carries tag.
func (t *Thing) HasQuestTag(tag string) bool {
	for _, qt := range t.QuestTags {
		if qt == tag {
			return true
		}
	}
	return false
}

// ShuttleComp holds the boarding rules of a shuttle thing.
type ShuttleComp struct {
	RequiredPawns         []*Pawn
	RequiredItems         []ThingCount
	AcceptColonists       bool
	AcceptChildren        bool
	OnlyAcceptColonists   bool
	OnlyAcceptHealthy     bool
	RequiredColonistCount int
	PermitShuttle         bool
	MinAge                int

	// MassCapacityOverride replaces the def's mass capacity when > 0.
	MassCapacityOverride float64
}

// TransportShip wraps a ship thing with the job state the host's ship
// system tracks.
type TransportShip struct {
	Def       *TransportShipDef
	ShipThing *Thing
	Cargo     []*Thing

	// Started signals downstream systems that the leg is live.
	Started bool
}
