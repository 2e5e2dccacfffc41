package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Falloutization/royalty/internal/defs"
	"github.com/Falloutization/royalty/pkg/core"

	"gopkg.in/yaml.v3"
)

// Scenario is a quest replayed through the hooks by the simulate command.
type Scenario struct {
	Quest   QuestSpec    `yaml:"quest"`
	Shuttle *ShuttleSpec `yaml:"generate_shuttle"`
	// Signals are delivered in order to every step of the quest.
	Signals []string `yaml:"signals"`
	// Map, when set, is queried for the large-ship landing spot.
	Map string `yaml:"map"`
}

// QuestSpec describes the quest under test.
type QuestSpec struct {
	ID      int        `yaml:"id"`
	Name    string     `yaml:"name"`
	Asker   string     `yaml:"asker"`
	Lodgers []PawnSpec `yaml:"lodgers"`
	Steps   []StepSpec `yaml:"steps"`
}

// PawnSpec describes a lodger.
type PawnSpec struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Age      int    `yaml:"age"`
	Colonist bool   `yaml:"colonist"`
}

// StepSpec is one quest step. Kind is delay, shipjob or anything else for a
// generic step.
type StepSpec struct {
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
	InSignal   string `yaml:"in_signal"`
	Job        string `yaml:"job"`
	DelayTicks int    `yaml:"delay_ticks"`
}

// ShuttleSpec runs the shuttle generation hooks before the signals.
type ShuttleSpec struct {
	Slate map[string]any `yaml:"slate"`
}

var errNoSteps = errors.New("scenario quest has no steps")

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(s.Quest.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errNoSteps)
	}
	return &s, nil
}

// BuildQuest turns the quest spec into a live quest. The asker faction must
// exist in the catalog.
func (s *Scenario) BuildQuest(catalog *defs.Catalog) (*core.Quest, error) {
	q := &core.Quest{ID: s.Quest.ID, Name: s.Quest.Name}

	if s.Quest.Asker != "" {
		def, ok := catalog.FactionDef(s.Quest.Asker)
		if !ok {
			return nil, fmt.Errorf("unknown asker faction %q", s.Quest.Asker)
		}
		q.InvolvedFactions = append(q.InvolvedFactions, &core.Faction{ID: 1, Name: def.Label, Def: def})
	}

	lodgers := make([]*core.Pawn, 0, len(s.Quest.Lodgers))
	for _, p := range s.Quest.Lodgers {
		lodgers = append(lodgers, &core.Pawn{ID: p.ID, Name: p.Name, Age: p.Age, Colonist: p.Colonist})
	}

	for i, st := range s.Quest.Steps {
		switch st.Kind {
		case "delay":
			q.Steps = append(q.Steps, &core.ShuttleDelayStep{InSignal: st.InSignal, Lodgers: lodgers, DelayTicks: st.DelayTicks})
		case "shipjob":
			if st.Job == "" {
				return nil, fmt.Errorf("step %d: shipjob without job", i)
			}
			q.Steps = append(q.Steps, &core.ShipJobStep{InSignal: st.InSignal, Job: core.JobKind(st.Job)})
		default:
			q.Steps = append(q.Steps, &core.GenericStep{Name: st.Name, InSignal: st.InSignal})
		}
	}
	return q, nil
}
