// Package gormstorage implements the storage.Backend interface using GORM
// over SQLite or PostgreSQL. Records are buffered in a queue and written in
// batches on Flush, on Close and on a ticker.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Falloutization/royalty/internal/database"
	"github.com/Falloutization/royalty/internal/model"
	"github.com/Falloutization/royalty/internal/model/convert"
	"github.com/Falloutization/royalty/internal/queue"
	"github.com/Falloutization/royalty/pkg/core"

	"gorm.io/gorm"
)

const batchSize = 200

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

// Config holds the backend settings.
type Config struct {
	FlushInterval    time.Duration
	ExtensionVersion string
	StorageType      string
}

// Backend implements storage.Backend with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	cfg       Config
	pending   *queue.Queue[model.Intervention]
	sessionID uint

	writeMu   sync.Mutex
	stopChan  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new GORM storage backend.
func New(deps Dependencies, cfg Config) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{
		deps:    deps,
		cfg:     cfg,
		pending: queue.New[model.Intervention](),
	}
}

// Init migrates the schema, opens a session row and starts the flush loop.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend has no database")
	}
	if err := database.Migrate(b.deps.DB); err != nil {
		return err
	}

	session := model.Session{
		StartedAt:        time.Now(),
		ExtensionVersion: b.cfg.ExtensionVersion,
		StorageType:      b.cfg.StorageType,
	}
	if err := b.deps.DB.Create(&session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.sessionID = session.ID
	b.deps.Logger.Info("Journal session opened", "session", session.ID, "storage", b.cfg.StorageType)

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	if b.cfg.FlushInterval > 0 {
		go b.flushLoop()
	} else {
		close(b.done)
	}
	return nil
}

// SessionID returns the ID of the session row written by Init.
func (b *Backend) SessionID() uint {
	return b.sessionID
}

// Pending returns the number of buffered records.
func (b *Backend) Pending() int {
	return b.pending.Len()
}

// RecordIntervention converts and queues a hook decision.
func (b *Backend) RecordIntervention(i *core.Intervention) error {
	b.pending.Push(convert.CoreToIntervention(*i, b.sessionID))
	return nil
}

// Flush writes every queued record in one transaction. On failure the
// records go back on the queue.
func (b *Backend) Flush() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if b.pending.Empty() {
		return nil
	}

	items := b.pending.Drain()
	err := b.deps.DB.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&items, batchSize).Error
	})
	if err != nil {
		for i := range items {
			items[i].ID = 0
		}
		b.pending.Requeue(items...)
		return fmt.Errorf("failed to write %d interventions: %w", len(items), err)
	}

	b.deps.Logger.Debug("Flushed interventions", "count", len(items))
	return nil
}

// Interventions flushes and returns the stored journal.
func (b *Backend) Interventions(questID int) ([]core.Intervention, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}

	var rows []model.Intervention
	q := b.deps.DB.Order("id")
	if questID >= 0 {
		q = q.Where("quest_id = ?", questID)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query interventions: %w", err)
	}

	out := make([]core.Intervention, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert.InterventionToCore(r))
	}
	return out, nil
}

// Close stops the flush loop and writes whatever is left.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			<-b.done
		}
		if b.deps.DB != nil {
			err = b.Flush()
		}
	})
	return err
}

func (b *Backend) flushLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.deps.Logger.Error("Error flushing interventions", "error", err)
			}
		}
	}
}
