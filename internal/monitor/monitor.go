package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Falloutization/royalty/internal/cache"
	"github.com/Falloutization/royalty/internal/logging"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager *logging.SlogManager
	ThingCache *cache.ThingCache
	// Hooks reports how many hooks are registered.
	Hooks func() int
	// Pending reports journal records not yet written. Optional.
	Pending    func() int
	StatusFile string
	Interval   time.Duration
}

// Status is a snapshot of the extension state.
type Status struct {
	Time           time.Time `json:"time"`
	Hooks          int       `json:"hooks"`
	ThingsSpawned  int       `json:"thingsSpawned"`
	JournalPending int       `json:"journalPending"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current status.
func (s *Service) GetStatus() Status {
	st := Status{Time: time.Now()}
	if s.deps.Hooks != nil {
		st.Hooks = s.deps.Hooks()
	}
	if s.deps.ThingCache != nil {
		st.ThingsSpawned = s.deps.ThingCache.Len()
	}
	if s.deps.Pending != nil {
		st.JournalPending = s.deps.Pending()
	}
	return st
}

// WriteStatus replaces the status file with the current status.
func (s *Service) WriteStatus() error {
	if s.deps.StatusFile == "" {
		return nil
	}
	b, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.deps.StatusFile, b, 0644); err != nil {
		return fmt.Errorf("error writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine. A zero interval disables it.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning || s.deps.Interval <= 0 {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor", "interval", s.deps.Interval, "file", s.deps.StatusFile)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.WriteStatus(); err != nil {
					logger.Error("Error writing status", "error", err)
				}
			}
		}
	}()
}

// Stop stops the status monitor and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
