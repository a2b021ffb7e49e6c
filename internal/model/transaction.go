package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType carries the sign of a transaction; Amount is always a magnitude.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Well-known values for Transaction.Source.
const (
	SourceOFXImport = "OFX Import"
	SourceClient    = "Client"
)

// Transaction is a row of a user's ledger.
//
// (UserID, ExternalID) is unique whenever ExternalID is set, which is what makes
// re-importing the same statement idempotent.
type Transaction struct {
	ID          uuid.UUID       `json:"id" gorm:"size:36;primaryKey"`
	UserID      uuid.UUID       `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_transactions_user_external,priority:1;index:idx_transactions_user_description,priority:1"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Type        TransactionType `json:"type" gorm:"size:16;not null"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Description string          `json:"description" gorm:"size:255;not null;index:idx_transactions_user_description,priority:2"`
	Source      string          `json:"source" gorm:"size:64"`
	ExternalID  *string         `json:"externalId,omitempty" gorm:"size:128;uniqueIndex:idx_transactions_user_external,priority:2"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty" gorm:"size:36;index"`
	GoalID      *uuid.UUID      `json:"goalId,omitempty" gorm:"size:36;index"`
	IsRecurring bool            `json:"isRecurring" gorm:"not null;default:false"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate assigns a random ID when none was set.
func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
