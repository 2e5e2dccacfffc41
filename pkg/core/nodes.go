// pkg/core/nodes.go
package core

// GenerateShuttleNode is the quest-generation node that creates a shuttle.
// Every field except StoreAs names a slate key; StoreAs is the key the
// generated thing is written to.
type GenerateShuttleNode struct {
	OwningFaction        string
	RequiredPawns        string
	RequiredItems        string
	AcceptColonists      string
	AcceptChildren       string
	OnlyAcceptColonists  string
	OnlyAcceptHealthy    string
	RequireColonistCount string
	PermitShuttle        string
	MinAge               string
	OverrideMass         string
	StoreAs              string
}

// GenerateTransportShipNode is the quest-generation node that wraps a ship
// thing in a transport ship. ShipThing names a slate key.
type GenerateTransportShipNode struct {
	Def       *TransportShipDef
	ShipThing string
	StoreAs   string
}
