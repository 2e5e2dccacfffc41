// pkg/core/intervention.go
package core

import "time"

// Outcome is what an intercepted hook decided.
type Outcome string

const (
	OutcomeOverride Outcome = "override"
	OutcomeDefer    Outcome = "defer"
	OutcomeDeclined Outcome = "declined"
)

// Intervention records one hook decision.
type Intervention struct {
	ID      uint      `json:"id"`
	QuestID int       `json:"questId"`
	Hook    string    `json:"hook"`
	Outcome Outcome   `json:"outcome"`
	Reason  string    `json:"reason,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Time    time.Time `json:"time"`

	// Detail carries hook-specific context such as the target type.
	Detail map[string]string `json:"detail,omitempty"`
}
