// pkg/core/quest.go
package core

import "fmt"

// JobKind identifies what a ship job does.
type JobKind string

const (
	JobArrive       JobKind = "Arrive"
	JobWaitTime     JobKind = "WaitTime"
	JobWaitForever  JobKind = "WaitForever"
	JobWaitSendable JobKind = "WaitSendable"
	JobFlyAway      JobKind = "FlyAway"
	JobUnload       JobKind = "Unload"
)

// Step is one part of a quest. Steps run left to right as the host
// dispatches signals; their order is meaningful.
type Step interface {
	// InSignalTag is the signal that activates the step.
	InSignalTag() string
}

// ShipJobStep adds a job to a transport ship when its signal fires.
type ShipJobStep struct {
	InSignal string
	Job      JobKind
	Ship     *TransportShip
}

func (s *ShipJobStep) InSignalTag() string { return s.InSignal }

// ShuttleDelayStep waits for lodgers to be picked up.
type ShuttleDelayStep struct {
	InSignal   string
	Lodgers    []*Pawn
	DelayTicks int
}

func (s *ShuttleDelayStep) InSignalTag() string { return s.InSignal }

// GenericStep stands in for every step kind this module does not inspect.
type GenericStep struct {
	Name     string
	InSignal string
}

func (s *GenericStep) InSignalTag() string { return s.InSignal }

// Quest is one running workflow instance.
type Quest struct {
	ID               int
	Name             string
	InvolvedFactions []*Faction

	// Steps is the ordered step sequence of the quest.
	Steps []Step
}

// IndexOf returns the position of step in the sequence by identity.
func (q *Quest) IndexOf(step Step) (int, bool) {
	for i, s := range q.Steps {
		if s == step {
			return i, true
		}
	}
	return -1, false
}

// PickupShipTag is the quest-scoped tag a reconstructed pickup ship carries.
func (q *Quest) PickupShipTag() string {
	return fmt.Sprintf("Quest%d.pickupShipThing", q.ID)
}

// Signal is a named event delivered to a quest step.
type Signal struct {
	Tag  string
	Args map[string]any
}
