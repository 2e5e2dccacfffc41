// Package shipjob rebuilds the pickup ship of a quest when the host reaches
// an Arrive job with no ship attached, and links the rebuilt ship to the
// WaitTime and FlyAway jobs that follow it.
package shipjob

import (
	"fmt"
	"log/slog"

	"github.com/Falloutization/royalty/internal/dispatcher"
	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/pkg/core"
)

// Hook is the dispatcher hook name for signals delivered to ship job steps.
const Hook = "shipjob:signal"

// propagationWindow is how many steps past Arrive receive the ship.
const propagationWindow = 2

// Catalog resolves transport ship defs.
type Catalog interface {
	TransportShipDef(name string) (*core.TransportShipDef, bool)
	FactionOverride(f *core.Faction) (*core.FactionExtension, bool)
}

// Spawner creates and registers things.
type Spawner interface {
	MakeThing(def *core.ThingDef) *core.Thing
	SetFaction(t *core.Thing, f *core.Faction)
	Tag(t *core.Thing, tag string)
	MakeTransportShip(def *core.TransportShipDef, thing *core.Thing, cargo []*core.Thing) *core.TransportShip
}

// SignalCall is the hook target: a signal arriving at a ship job step.
type SignalCall struct {
	Quest  *core.Quest
	Step   *core.ShipJobStep
	Signal core.Signal
}

// Reconstructor restores the pickup ship of a quest.
type Reconstructor struct {
	catalog    Catalog
	spawner    Spawner
	defaultDef string
	logger     *slog.Logger
}

// New returns a reconstructor that falls back to the transport ship def
// named defaultDef when the asker faction has no override.
func New(catalog Catalog, spawner Spawner, defaultDef string, logger *slog.Logger) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconstructor{
		catalog:    catalog,
		spawner:    spawner,
		defaultDef: defaultDef,
		logger:     logger,
	}
}

// Handle is the dispatcher entry point for Hook.
func (r *Reconstructor) Handle(e dispatcher.Event) (intercept.Result, error) {
	call, ok := e.Target.(*SignalCall)
	if !ok || call == nil || call.Quest == nil || call.Step == nil {
		return intercept.Defer(), fmt.Errorf("%w: %T", intercept.ErrUnexpectedTarget, e.Target)
	}
	return r.Reconstruct(call.Quest, call.Step, call.Signal)
}

// Reconstruct rebuilds the ship for step if the signal triggers it. A step
// the signal does not apply to is left alone and the result is Defer with no
// error. Every precondition is checked before anything is spawned, so an
// error means the quest is unchanged.
func (r *Reconstructor) Reconstruct(q *core.Quest, step *core.ShipJobStep, sig core.Signal) (intercept.Result, error) {
	switch {
	case step.InSignal != sig.Tag:
		r.logger.Debug("signal does not target step", "quest", q.ID, "signal", sig.Tag)
		return intercept.Defer(), nil
	case step.Ship != nil:
		r.logger.Debug("ship job already has a ship", "quest", q.ID, "signal", sig.Tag)
		return intercept.Defer(), nil
	case step.Job != core.JobArrive:
		r.logger.Debug("ship job is not an arrival", "quest", q.ID, "job", step.Job)
		return intercept.Defer(), nil
	}

	asker, err := askerFaction(q)
	if err != nil {
		return intercept.Defer(), err
	}

	def, err := r.resolveDef(asker)
	if err != nil {
		return intercept.Defer(), err
	}
	if !def.ShipThing.HasComp(core.CompShuttle) {
		return intercept.Defer(), fmt.Errorf("%w: %s", intercept.ErrMissingComponent, def.ShipThing.Name)
	}

	delay, ok := firstDelayStep(q)
	if !ok {
		return intercept.Defer(), intercept.ErrMissingDelayStep
	}

	idx, ok := q.IndexOf(step)
	if !ok {
		return intercept.Defer(), fmt.Errorf("%w: quest %d", intercept.ErrIndexNotFound, q.ID)
	}

	thing := r.spawner.MakeThing(def.ShipThing)
	if thing.Shuttle == nil {
		return intercept.Defer(), fmt.Errorf("%w: %s", intercept.ErrMissingComponent, thing.ID)
	}
	r.spawner.SetFaction(thing, asker)
	r.spawner.Tag(thing, q.PickupShipTag())

	thing.Shuttle.RequiredPawns = append(thing.Shuttle.RequiredPawns, delay.Lodgers...)
	thing.Shuttle.AcceptColonists = false

	ship := r.spawner.MakeTransportShip(def, thing, nil)
	step.Ship = ship
	linked := propagate(q, idx, ship)
	ship.Started = true

	r.logger.Info("reconstructed pickup ship",
		"quest", q.ID,
		"def", def.Name,
		"thing", thing.ID,
		"lodgers", len(delay.Lodgers),
		"linked", linked,
	)

	return intercept.Override(ship), nil
}

// askerFaction returns the first involved faction of q.
func askerFaction(q *core.Quest) (*core.Faction, error) {
	if len(q.InvolvedFactions) == 0 {
		return nil, fmt.Errorf("%w: quest %d has no involved factions", intercept.ErrMissingOwner, q.ID)
	}
	f := q.InvolvedFactions[0]
	if f == nil || f.Def == nil {
		return nil, fmt.Errorf("%w: quest %d asker has no def", intercept.ErrMissingOwner, q.ID)
	}
	return f, nil
}

// resolveDef prefers the faction's own transport ship over the default.
func (r *Reconstructor) resolveDef(asker *core.Faction) (*core.TransportShipDef, error) {
	if ext, ok := r.catalog.FactionOverride(asker); ok && ext.TransportShipDef.ShipThing != nil {
		return ext.TransportShipDef, nil
	}
	if def, ok := r.catalog.TransportShipDef(r.defaultDef); ok && def.ShipThing != nil {
		return def, nil
	}
	return nil, fmt.Errorf("%w: faction %s has no override and %q is unavailable",
		intercept.ErrMissingDefinition, asker.Def.Name, r.defaultDef)
}

func firstDelayStep(q *core.Quest) (*core.ShuttleDelayStep, bool) {
	for _, s := range q.Steps {
		if d, ok := s.(*core.ShuttleDelayStep); ok {
			return d, true
		}
	}
	return nil, false
}

// propagate hands ship to the WaitTime and FlyAway jobs in the two steps
// after idx and returns how many it linked.
func propagate(q *core.Quest, idx int, ship *core.TransportShip) int {
	linked := 0
	for off := 1; off <= propagationWindow; off++ {
		j := idx + off
		if j >= len(q.Steps) {
			break
		}
		job, ok := q.Steps[j].(*core.ShipJobStep)
		if !ok {
			continue
		}
		if job.Job == core.JobWaitTime || job.Job == core.JobFlyAway {
			job.Ship = ship
			linked++
		}
	}
	return linked
}
