package model

import (
	"time"

	"gorm.io/datatypes"
)

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&Intervention{},
}

// Session is one run of the extension. Interventions reference it.
type Session struct {
	ID               uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	StartedAt        time.Time `json:"startedAt" gorm:"NOT NULL;"`
	ExtensionVersion string    `json:"extensionVersion" gorm:"size:64"`
	StorageType      string    `json:"storageType" gorm:"size:16"`
}

func (*Session) TableName() string {
	return "sessions"
}

// Intervention is one journaled hook decision.
type Intervention struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	SessionID uint           `json:"sessionId" gorm:"index:idx_intervention_session_id"`
	Session   Session        `json:"-" gorm:"foreignkey:SessionID;"`
	Time      time.Time      `json:"time" gorm:"NOT NULL;"`
	QuestID   int            `json:"questId" gorm:"index:idx_intervention_quest_id"`
	Hook      string         `json:"hook" gorm:"size:64;index:idx_intervention_hook"`
	Outcome   string         `json:"outcome" gorm:"size:16"`
	Reason    string         `json:"reason" gorm:"size:512"`
	Subject   string         `json:"subject" gorm:"size:128"`
	Detail    datatypes.JSON `json:"detail"`
}

func (*Intervention) TableName() string {
	return "interventions"
}
