// Package categorize infers a category for transactions that arrive without one.
//
// Inference has two tiers. The user's own history comes first: the most recent
// transaction with the exact same description and a category decides. Failing
// that, an ordered keyword table is scanned and the first matching rule names
// a category, which is looked up or created globally by (name, type). Finding
// nothing is a normal outcome.
package categorize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tallybook/tally/internal/model"
)

// Placeholder is the category name clients send when the user picked nothing.
const Placeholder = "Other"

// History looks up categories the user assigned before.
type History interface {
	// LatestCategoryFor returns the category of the user's most recent
	// categorized transaction whose description equals description, or nil.
	LatestCategoryFor(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error)
}

// Categories finds or creates global categories.
type Categories interface {
	FindOrCreateCategory(ctx context.Context, name string, typ model.TransactionType) (model.Category, error)
}

// Source tells which tier produced a Result.
type Source string

const (
	SourceNone    Source = "none"
	SourceHistory Source = "history"
	SourceKeyword Source = "keyword"
)

// Result is the outcome of inference. CategoryID is nil when nothing matched.
type Result struct {
	CategoryID *uuid.UUID
	Source     Source
	Category   string // rule category name, set for SourceKeyword
}

// Request describes the transaction to categorize and the keyword table to use.
type Request struct {
	UserID      uuid.UUID
	Description string
	Type        model.TransactionType
	Table       Table
}

// Engine runs two-tier inference.
type Engine struct {
	history    History
	categories Categories
	book       *RuleBook
}

// NewEngine creates an Engine. A nil book means DefaultRuleBook.
func NewEngine(history History, categories Categories, book *RuleBook) *Engine {
	if book == nil {
		book = DefaultRuleBook()
	}
	return &Engine{history: history, categories: categories, book: book}
}

// Book returns the rule book in use.
func (e *Engine) Book() *RuleBook {
	return e.book
}

// Categorize runs history matching, then keyword matching against req.Table.
func (e *Engine) Categorize(ctx context.Context, req Request) (Result, error) {
	id, err := e.history.LatestCategoryFor(ctx, req.UserID, req.Description)
	if err != nil {
		return Result{}, fmt.Errorf("history lookup: %w", err)
	}
	if id != nil {
		return Result{CategoryID: id, Source: SourceHistory}, nil
	}

	name, ok := req.Table.Match(req.Description)
	if !ok {
		return Result{Source: SourceNone}, nil
	}
	cat, err := e.categories.FindOrCreateCategory(ctx, name, req.Type)
	if err != nil {
		return Result{}, fmt.Errorf("resolving category %q: %w", name, err)
	}
	return Result{CategoryID: &cat.ID, Source: SourceKeyword, Category: name}, nil
}

// ForImport categorizes a parsed statement draft using the import table.
func (e *Engine) ForImport(ctx context.Context, userID uuid.UUID, d model.Draft) (Result, error) {
	return e.Categorize(ctx, Request{
		UserID:      userID,
		Description: d.Description,
		Type:        d.Type,
		Table:       e.book.Import,
	})
}

// ForManual categorizes a manually entered transaction. smart selects the
// per-type tables available to entitled plans.
func (e *Engine) ForManual(ctx context.Context, userID uuid.UUID, description string, typ model.TransactionType, smart bool) (Result, error) {
	return e.Categorize(ctx, Request{
		UserID:      userID,
		Description: description,
		Type:        typ,
		Table:       e.book.ManualTable(typ, smart),
	})
}

// IsPlaceholder reports whether a caller-supplied category name means "none".
func IsPlaceholder(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, Placeholder)
}
