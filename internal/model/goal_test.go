package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		target, current string
		want            string
	}{
		{"200", "50", "0.25"},
		{"200", "200", "1"},
		{"200", "350", "1"},
		{"0", "50", "0"},
		{"100", "0", "0"},
	}
	for _, tt := range tests {
		g := Goal{
			TargetAmount:  decimal.RequireFromString(tt.target),
			CurrentAmount: decimal.RequireFromString(tt.current),
		}
		assert.True(t, decimal.RequireFromString(tt.want).Equal(g.Progress()),
			"Progress(%s/%s) = %s", tt.current, tt.target, g.Progress())
	}
}

func TestTransactionTypeValid(t *testing.T) {
	assert.True(t, TypeIncome.Valid())
	assert.True(t, TypeExpense.Valid())
	assert.False(t, TransactionType("transfer").Valid())
	assert.False(t, TransactionType("").Valid())
}
