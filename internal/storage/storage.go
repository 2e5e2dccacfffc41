// Package storage journals hook decisions.
package storage

import "github.com/Falloutization/royalty/pkg/core"

// AllQuests selects interventions of every quest.
const AllQuests = -1

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// RecordIntervention journals one hook decision.
	RecordIntervention(i *core.Intervention) error

	// Interventions returns the journal of a quest, or of all quests for
	// AllQuests, oldest first.
	Interventions(questID int) ([]core.Intervention, error)

	// Flush writes buffered records.
	Flush() error
}
