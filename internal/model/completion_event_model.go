package model

import (
	"time"

	"gorm.io/datatypes"
)

// CompletionEvent is the relational form of one log row. LogDate is the
// partition key; Id preserves append order inside a partition.
type CompletionEvent struct {
	Id         uint64         `gorm:"primaryKey;autoIncrement"`
	SessionId  string         `gorm:"type:varchar(64);not null;index"`
	Ts         time.Time      `gorm:"not null"`
	LogDate    datatypes.Date `gorm:"not null;index"`
	GoalType   string         `gorm:"type:varchar(64);not null"`
	TimeBudget string         `gorm:"type:varchar(32);not null"`
	TaskId     string         `gorm:"type:varchar(64);not null"`
	Variant    string         `gorm:"type:varchar(8);not null"`
	Done       int            `gorm:"not null;default:1"`
	CreatedAt  time.Time      `gorm:"default:now();not null"`
}

func (CompletionEvent) TableName() string {
	return "completion_events"
}
