package ledger

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/logger"
	"github.com/tallybook/tally/internal/model"
	"github.com/tallybook/tally/internal/plan"
	"github.com/tallybook/tally/internal/store"
)

type fixture struct {
	svc   *Service
	store *store.Store
	logs  *bytes.Buffer
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf)

	st, err := store.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "tally.db"),
		LogLevel: "silent",
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	return &fixture{
		svc:   NewService(st, nil, nil, log),
		store: st,
		logs:  &buf,
		ctx:   context.Background(),
	}
}

func freeActor() Actor { return Actor{UserID: uuid.New(), Tier: plan.Free} }
func proActor() Actor  { return Actor{UserID: uuid.New(), Tier: plan.Pro} }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) goal(t *testing.T, actor Actor, name string) *model.Goal {
	t.Helper()
	g, err := f.svc.CreateGoal(f.ctx, actor, GoalParams{Name: name, TargetAmount: dec("1000")})
	require.NoError(t, err)
	return g
}

func (f *fixture) goalAmount(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	g, err := f.store.GetGoal(f.ctx, id)
	require.NoError(t, err)
	return g.CurrentAmount
}

func (f *fixture) categoryName(t *testing.T, id *uuid.UUID) string {
	t.Helper()
	if id == nil {
		return ""
	}
	c, err := f.store.GetCategory(f.ctx, *id)
	require.NoError(t, err)
	return c.Name
}

func expense(amount string, goal *uuid.UUID) CreateParams {
	return CreateParams{
		Amount:      dec(amount),
		Type:        model.TypeExpense,
		Date:        day("2025-03-10"),
		Description: "Savings transfer",
		GoalID:      goal,
	}
}
