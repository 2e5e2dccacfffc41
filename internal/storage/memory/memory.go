package memory

import (
	"sync"

	"github.com/Falloutization/royalty/pkg/core"
)

// Backend keeps the journal in memory for the life of the process.
type Backend struct {
	interventions []core.Intervention

	idCounter uint
	mu        sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Flush is a no-op; records are stored as they arrive.
func (b *Backend) Flush() error {
	return nil
}

// RecordIntervention stores i and assigns its ID.
func (b *Backend) RecordIntervention(i *core.Intervention) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	i.ID = b.idCounter
	b.interventions = append(b.interventions, *i)
	return nil
}

// Interventions returns the journal of questID, or everything when
// questID is negative.
func (b *Backend) Interventions(questID int) ([]core.Intervention, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []core.Intervention
	for _, i := range b.interventions {
		if questID < 0 || i.QuestID == questID {
			out = append(out, i)
		}
	}
	return out, nil
}
