package models

import "time"

// SyncRun is one audit row per executed sync operation.
type SyncRun struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Scope       string `gorm:"type:varchar(50);not null;index"`
	Integration string `gorm:"type:varchar(20);not null;index"`

	StartedAt  time.Time  `gorm:"type:timestamptz;not null;index"`
	FinishedAt *time.Time `gorm:"type:timestamptz"`

	Pages   int `gorm:"not null;default:0"`
	Fetched int `gorm:"not null;default:0"`
	Created int `gorm:"not null;default:0"`
	Updated int `gorm:"not null;default:0"`
	Skipped int `gorm:"not null;default:0"`
	Failed  int `gorm:"not null;default:0"`

	Partial bool    `gorm:"not null;default:false"`
	Error   *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
