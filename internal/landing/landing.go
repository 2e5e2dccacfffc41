// Package landing picks where an arriving ship sets down. Select runs an
// ordered cascade of grid searches, each with weaker acceptance rules than
// the last, and always produces a cell.
package landing

import (
	"fmt"
	"log/slog"

	"github.com/Falloutization/royalty/internal/dispatcher"
	"github.com/Falloutization/royalty/internal/intercept"
	"github.com/Falloutization/royalty/pkg/core"
)

// Hook is the dispatcher hook for the host's shuttle landing spot query.
const Hook = "dropcell:bestShuttleLandingSpot"

// SafeSpotParams bounds the general safe-spot search.
type SafeSpotParams struct {
	MinRadius int
	MaxRadius int
	Rings     int
	Size      core.Size
}

// DropSpotOptions filters the drop-near search.
type DropSpotOptions struct {
	AllowFogged  bool
	CanRoofPunch bool
	AllowIndoors bool
	Size         core.Size
}

// Grid is the set of map queries the cascade is built from. Each reports
// whether it found a cell.
type Grid interface {
	TryFindShipLandingArea(size core.Size) (cell core.Cell, blocking *core.Thing, ok bool)
	TryFindSafeLandingSpotCloseToColony(size core.Size, faction *core.Faction) (core.Cell, bool)
	FindSafeLandingSpot(faction *core.Faction, params SafeSpotParams) (core.Cell, bool)
	RandomDropSpot(standableOnly bool) (core.Cell, bool)
	TryFindDropSpotNear(center core.Cell, opts DropSpotOptions) (core.Cell, bool)
}

// Config holds the cascade constants.
type Config struct {
	Margin        int
	SafeMinRadius int
	SafeMaxRadius int
	SafeRings     int
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		Margin:        1,
		SafeMinRadius: 15,
		SafeMaxRadius: 35,
		SafeRings:     25,
	}
}

// Spot is a chosen landing cell. Blocking is whatever the landing area
// search found in the way, if anything; it is advisory only.
type Spot struct {
	Cell     core.Cell
	Blocking *core.Thing
}

func (s Spot) String() string {
	return s.Cell.String()
}

// Selector runs the landing cascade.
type Selector struct {
	cfg Config
}

// NewSelector returns a Selector using cfg.
func NewSelector(cfg Config) *Selector {
	return &Selector{cfg: cfg}
}

// Select returns the best landing cell on g for a ship of the given size.
func (s *Selector) Select(g Grid, faction *core.Faction, size core.Size) Spot {
	cell, blocking, ok := g.TryFindShipLandingArea(size)
	if ok && cell.IsValid() {
		return Spot{Cell: cell, Blocking: blocking}
	}

	cell, ok = g.TryFindSafeLandingSpotCloseToColony(size, faction)
	if ok && cell.IsValid() {
		return Spot{Cell: cell, Blocking: blocking}
	}

	padded := size.Pad(s.cfg.Margin)
	cell, ok = g.FindSafeLandingSpot(faction, SafeSpotParams{
		MinRadius: s.cfg.SafeMinRadius,
		MaxRadius: s.cfg.SafeMaxRadius,
		Rings:     s.cfg.SafeRings,
		Size:      padded,
	})
	if ok && cell.IsValid() {
		return Spot{Cell: cell, Blocking: blocking}
	}

	return Spot{Cell: s.randomDrop(g, padded), Blocking: blocking}
}

func (s *Selector) randomDrop(g Grid, padded core.Size) core.Cell {
	raw, ok := g.RandomDropSpot(true)
	if !ok || !raw.IsValid() {
		raw, _ = g.RandomDropSpot(false)
	}
	near, ok := g.TryFindDropSpotNear(raw, DropSpotOptions{Size: padded})
	if ok && near.IsValid() {
		return near
	}
	return raw
}

// ThingDefs resolves thing defs by name.
type ThingDefs interface {
	ThingDef(name string) (*core.ThingDef, bool)
}

// Query is the target of Hook.
type Query struct {
	Grid    Grid
	Faction *core.Faction
}

// LargeShip sizes the landing search for a large ship def instead of the
// host's shuttle.
type LargeShip struct {
	selector *Selector
	defs     ThingDefs
	defName  string
	logger   *slog.Logger
}

// NewLargeShip returns the hook for ships of thing def defName.
func NewLargeShip(selector *Selector, defs ThingDefs, defName string, logger *slog.Logger) *LargeShip {
	if logger == nil {
		logger = slog.Default()
	}
	return &LargeShip{selector: selector, defs: defs, defName: defName, logger: logger}
}

// Handle returns Override(Spot) when the large ship def exists, and Defer
// otherwise so the host uses its own shuttle size.
func (l *LargeShip) Handle(e dispatcher.Event) (intercept.Result, error) {
	q, ok := e.Target.(*Query)
	if !ok || q == nil || q.Grid == nil {
		return intercept.Defer(), fmt.Errorf("%w: %T", intercept.ErrUnexpectedTarget, e.Target)
	}

	def, ok := l.defs.ThingDef(l.defName)
	if !ok {
		return intercept.Defer(), nil
	}

	spot := l.selector.Select(q.Grid, q.Faction, def.Size)
	l.logger.Debug("selected landing spot", "def", def.Name, "cell", spot.Cell.String(), "blocked", spot.Blocking != nil)
	return intercept.Override(spot), nil
}
