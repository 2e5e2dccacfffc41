package handlers

import (
	"sync"
	"time"

	"github.com/Falloutization/royalty/internal/cache"
	"github.com/Falloutization/royalty/internal/config"
	"github.com/Falloutization/royalty/internal/defs"
	"github.com/Falloutization/royalty/internal/dispatcher"
	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/internal/landing"
	"github.com/Falloutization/royalty/internal/logging"
	"github.com/Falloutization/royalty/internal/shipjob"
	"github.com/Falloutization/royalty/internal/shuttle"
	"github.com/Falloutization/royalty/internal/spawn"
	"github.com/Falloutization/royalty/internal/storage"
)

// QuestContext tracks the quest whose hook is being handled.
type QuestContext struct {
	mu     sync.RWMutex
	id     int
	active bool
}

// NewQuestContext creates an idle QuestContext.
func NewQuestContext() *QuestContext {
	return &QuestContext{}
}

// Active returns the current quest id, if a hook is running.
func (qc *QuestContext) Active() (int, bool) {
	qc.mu.RLock()
	defer qc.mu.RUnlock()
	return qc.id, qc.active
}

func (qc *QuestContext) enter(id int) {
	qc.mu.Lock()
	qc.id, qc.active = id, true
	qc.mu.Unlock()
}

func (qc *QuestContext) leave() {
	qc.mu.Lock()
	qc.active = false
	qc.mu.Unlock()
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Catalog    *defs.Catalog
	ThingCache *cache.ThingCache
	Backend    storage.Backend
	LogManager *logging.SlogManager
	Hooks      config.HooksConfig
	Landing    config.LandingConfig
}

// Service wires the hook implementations to a dispatcher.
type Service struct {
	deps    Dependencies
	ctx     *QuestContext
	spawner *spawn.Spawner

	reconstructor *shipjob.Reconstructor
	generator     *shuttle.Generator
	largeShip     *landing.LargeShip
}

// NewService builds every hook from deps.
func NewService(deps Dependencies, ctx *QuestContext) *Service {
	if deps.ThingCache == nil {
		deps.ThingCache = cache.NewThingCache()
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	logger := deps.LogManager.Logger()

	lc := landing.DefaultConfig()
	if deps.Landing.SafeMaxRadius > 0 {
		lc = landing.Config{
			Margin:        deps.Landing.Margin,
			SafeMinRadius: deps.Landing.SafeMinRadius,
			SafeMaxRadius: deps.Landing.SafeMaxRadius,
			SafeRings:     deps.Landing.SafeRings,
		}
	}

	sp := spawn.New(deps.ThingCache)
	return &Service{
		deps:          deps,
		ctx:           ctx,
		spawner:       sp,
		reconstructor: shipjob.New(deps.Catalog, sp, deps.Hooks.DefaultTransportShipDef, logger.With("hook", shipjob.Hook)),
		generator:     shuttle.New(deps.Catalog, sp, logger.With("hook", "questnode")),
		largeShip:     landing.NewLargeShip(landing.NewSelector(lc), deps.Catalog, deps.Hooks.LargeShipThingDef, logger.With("hook", landing.Hook)),
	}
}

// GetQuestContext returns the quest context
func (s *Service) GetQuestContext() *QuestContext {
	return s.ctx
}

// ThingCache returns the cache things are spawned into.
func (s *Service) ThingCache() *cache.ThingCache {
	return s.deps.ThingCache
}

// Register adds every hook to d. Each is logged, and journaled when a
// backend is configured.
func (s *Service) Register(d *dispatcher.Dispatcher) {
	opts := []dispatcher.Option{dispatcher.Logged()}
	if s.deps.Backend != nil {
		opts = append(opts, dispatcher.Journaled(s.deps.Backend))
	}

	d.Register(shipjob.Hook, s.reconstructor.Handle, opts...)
	d.Register(shuttle.GenerateShuttleHook, s.generator.HandleGenerateShuttle, opts...)
	d.Register(shuttle.GenerateTransportShipHook, s.generator.HandleGenerateTransportShip, opts...)
	d.Register(landing.Hook, s.largeShip.Handle, opts...)

	s.deps.LogManager.Logger().Info("Hooks initialized", "count", d.Hooks())
}

// Call dispatches one host call with the quest context set for its
// duration.
func (s *Service) Call(d *dispatcher.Dispatcher, hook string, questID int, target any) (intercept.Result, error) {
	s.ctx.enter(questID)
	defer s.ctx.leave()

	return d.Dispatch(dispatcher.Event{
		Hook:      hook,
		QuestID:   questID,
		Target:    target,
		Timestamp: time.Now(),
	})
}
