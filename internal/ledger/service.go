// Package ledger writes transactions and goals and keeps goal progress
// consistent with the transactions linked to each goal.
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tallybook/tally/internal/categorize"
	"github.com/tallybook/tally/internal/importer"
	"github.com/tallybook/tally/internal/logger"
	"github.com/tallybook/tally/internal/plan"
	"github.com/tallybook/tally/internal/store"
)

// Actor is the verified caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Tier   plan.Tier
}

// Service provides the ledger operations.
type Service struct {
	store    *store.Store
	book     *categorize.RuleBook
	gate     plan.Gate
	registry *importer.Registry
	log      zerolog.Logger
}

// NewService creates a ledger Service. A nil book uses the built-in rules and
// a nil gate uses the default entitlements.
func NewService(st *store.Store, book *categorize.RuleBook, gate plan.Gate, log zerolog.Logger) *Service {
	if book == nil {
		book = categorize.DefaultRuleBook()
	}
	if gate == nil {
		gate = plan.DefaultEntitlements()
	}
	return &Service{
		store:    st,
		book:     book,
		gate:     gate,
		registry: importer.DefaultRegistry(),
		log:      log,
	}
}

// engine returns a categorization engine reading through st, so lookups made
// inside a database transaction see its uncommitted writes.
func (s *Service) engine(st *store.Store) *categorize.Engine {
	return categorize.NewEngine(st, st, s.book)
}

func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	l := logger.FromContext(ctx, s.log)
	return &l
}
