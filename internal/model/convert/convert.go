// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/Falloutization/royalty/internal/model"
	"github.com/Falloutization/royalty/pkg/core"

	"gorm.io/datatypes"
)

// detailToJSON converts an intervention detail map to datatypes.JSON for DB storage.
func detailToJSON(detail map[string]string) datatypes.JSON {
	if len(detail) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(detail)
	return datatypes.JSON(data)
}

func detailFromJSON(data datatypes.JSON) map[string]string {
	if len(data) == 0 {
		return nil
	}
	var detail map[string]string
	if err := json.Unmarshal(data, &detail); err != nil || len(detail) == 0 {
		return nil
	}
	return detail
}

// CoreToIntervention converts a core.Intervention to a GORM model.
func CoreToIntervention(i core.Intervention, sessionID uint) model.Intervention {
	return model.Intervention{
		ID:        i.ID,
		SessionID: sessionID,
		Time:      i.Time,
		QuestID:   i.QuestID,
		Hook:      i.Hook,
		Outcome:   string(i.Outcome),
		Reason:    i.Reason,
		Subject:   i.Subject,
		Detail:    detailToJSON(i.Detail),
	}
}

// InterventionToCore converts a GORM intervention back to the core type.
func InterventionToCore(m model.Intervention) core.Intervention {
	return core.Intervention{
		ID:      m.ID,
		QuestID: m.QuestID,
		Hook:    m.Hook,
		Outcome: core.Outcome(m.Outcome),
		Reason:  m.Reason,
		Subject: m.Subject,
		Time:    m.Time,
		Detail:  detailFromJSON(m.Detail),
	}
}
