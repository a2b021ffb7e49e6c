package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a user-defined savings or spending target.
//
// CurrentAmount is derived: it equals the sum of Amount over every Transaction whose
// GoalID is this goal, and every linked transaction adds its magnitude whatever its
// type. It is only ever changed through goal adjustments, never written directly.
type Goal struct {
	ID            uuid.UUID       `json:"id" gorm:"size:36;primaryKey"`
	UserID        uuid.UUID       `json:"userId" gorm:"size:36;not null;index"`
	Name          string          `json:"name" gorm:"size:100;not null"`
	TargetAmount  decimal.Decimal `json:"targetAmount" gorm:"type:decimal(14,2);not null"`
	CurrentAmount decimal.Decimal `json:"currentAmount" gorm:"type:decimal(14,2);not null;default:0"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Color         string          `json:"color" gorm:"size:16"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BeforeCreate assigns a random ID when none was set.
func (g *Goal) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Progress returns CurrentAmount as a fraction of TargetAmount, capped at 1.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.TargetAmount)
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return p
}
