package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tally/internal/model"
)

func TestPlanAdjustments(t *testing.T) {
	g, h := uuid.New(), uuid.New()
	tx := func(amount string, goal *uuid.UUID) *model.Transaction {
		return &model.Transaction{Amount: dec(amount), Type: model.TypeExpense, GoalID: goal}
	}

	tests := []struct {
		name   string
		before *model.Transaction
		after  *model.Transaction
		want   map[uuid.UUID]string
	}{
		{"create linked", nil, tx("100", &g), map[uuid.UUID]string{g: "100"}},
		{"create unlinked", nil, tx("100", nil), nil},
		{"delete linked", tx("150", &h), nil, map[uuid.UUID]string{h: "-150"}},
		{"delete unlinked", tx("150", nil), nil, nil},
		{"amount change same goal", tx("100", &g), tx("150", &g), map[uuid.UUID]string{g: "50"}},
		{"amount decrease same goal", tx("150", &g), tx("20.5", &g), map[uuid.UUID]string{g: "-129.5"}},
		{"no change", tx("100", &g), tx("100", &g), nil},
		{"both unlinked", tx("100", nil), tx("300", nil), nil},
		{"relink", tx("150", &g), tx("150", &h), map[uuid.UUID]string{g: "-150", h: "150"}},
		{"relink with new amount", tx("100", &g), tx("150", &h), map[uuid.UUID]string{g: "-100", h: "150"}},
		{"link existing", tx("80", nil), tx("90", &h), map[uuid.UUID]string{h: "90"}},
		{"unlink", tx("80", &g), tx("90", nil), map[uuid.UUID]string{g: "-80"}},
		{"create zero amount", nil, tx("0", &g), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planAdjustments(tt.before, tt.after)
			require.Len(t, got, len(tt.want))
			for _, a := range got {
				want, ok := tt.want[a.GoalID]
				require.True(t, ok, "unexpected goal %s", a.GoalID)
				assert.True(t, dec(want).Equal(a.Delta), "goal delta: want %s, got %s", want, a.Delta)
			}
		})
	}
}

func TestPlanAdjustments_IncomeAlsoAdds(t *testing.T) {
	g := uuid.New()
	income := &model.Transaction{Amount: dec("40"), Type: model.TypeIncome, GoalID: &g}
	got := planAdjustments(nil, income)
	require.Len(t, got, 1)
	assert.True(t, got[0].Delta.Equal(decimal.NewFromInt(40)))
}

func TestReconcileGoal_RepairsDrift(t *testing.T) {
	f := newFixture(t)
	actor := freeActor()
	g := f.goal(t, actor, "Vacation")

	_, err := f.svc.CreateTransaction(f.ctx, actor, expense("100", &g.ID))
	require.NoError(t, err)
	_, err = f.svc.CreateTransaction(f.ctx, actor, expense("25.50", &g.ID))
	require.NoError(t, err)

	// Simulate an amount written by a lost update.
	require.NoError(t, f.store.SetGoalAmount(f.ctx, g.ID, dec("100")))

	res, err := f.svc.ReconcileGoal(f.ctx, actor, g.ID)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(res.Previous))
	assert.True(t, dec("125.50").Equal(res.Actual))
	assert.True(t, dec("-25.50").Equal(res.Drift))
	assert.Equal(t, int64(2), res.Linked)
	assert.True(t, dec("125.50").Equal(f.goalAmount(t, g.ID)))

	res, err = f.svc.ReconcileGoal(f.ctx, actor, g.ID)
	require.NoError(t, err)
	assert.True(t, res.Drift.IsZero())
}

func TestReconcileGoal_CentsAccumulateExactly(t *testing.T) {
	f := newFixture(t)
	actor := freeActor()
	g := f.goal(t, actor, "Coffee jar")

	_, err := f.svc.CreateTransaction(f.ctx, actor, expense("0.10", &g.ID))
	require.NoError(t, err)
	_, err = f.svc.CreateTransaction(f.ctx, actor, expense("0.20", &g.ID))
	require.NoError(t, err)

	current := f.goalAmount(t, g.ID)
	assert.True(t, dec("0.30").Equal(current), "got %s", current)

	res, err := f.svc.ReconcileGoal(f.ctx, actor, g.ID)
	require.NoError(t, err)
	assert.True(t, dec("0.30").Equal(res.Actual), "got %s", res.Actual)
	assert.True(t, res.Drift.IsZero(), "drift %s", res.Drift)
}

func TestReconcileGoal_Ownership(t *testing.T) {
	f := newFixture(t)
	g := f.goal(t, freeActor(), "Mine")

	_, err := f.svc.ReconcileGoal(f.ctx, freeActor(), g.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.ReconcileGoal(f.ctx, freeActor(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
