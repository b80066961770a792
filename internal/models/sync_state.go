package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncState keeps the latest outcome per sync scope. There is no cursor
// column on purpose: every sync walks the remote collection from page one.
type SyncState struct {
	Scope         string         `gorm:"primaryKey;type:varchar(50)"`
	Integration   string         `gorm:"type:varchar(20);not null;index"`
	LastAttemptAt *time.Time     `gorm:"type:timestamptz"`
	LastSuccessAt *time.Time     `gorm:"type:timestamptz"`
	LastError     *string        `gorm:"type:text"`
	StatsJSON     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt     time.Time      `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
