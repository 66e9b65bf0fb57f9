package specification

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// ByLogDate selects one day partition of the completion log.
type ByLogDate struct {
	Day time.Time
}

func (s ByLogDate) Apply(db *gorm.DB) *gorm.DB {
	u := s.Day.UTC()
	return db.Where("log_date = ?", datatypes.Date(time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)))
}

// ByVariant filters by tone variant.
type ByVariant struct {
	Variant string
}

func (s ByVariant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("variant = ?", s.Variant)
}
