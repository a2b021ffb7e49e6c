package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRun records the outcome of one statement import.
type ImportRun struct {
	ID         uuid.UUID `json:"id" gorm:"size:36;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"size:36;not null;index"`
	Filename   string    `json:"filename" gorm:"size:255"`
	Format     string    `json:"format" gorm:"size:16"`
	TotalFound int       `json:"totalFound"`
	Imported   int       `json:"imported"`
	Duplicates int       `json:"duplicates"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// BeforeCreate assigns a random ID when none was set.
func (r *ImportRun) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
