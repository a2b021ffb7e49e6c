package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tallybook/tally/internal/plan"
)

var (
	// ErrNotFound is returned when a transaction or goal does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("forbidden")
	// ErrPlanRequired is returned when the caller's plan lacks a feature.
	// The wrapped *plan.RequiredError names it.
	ErrPlanRequired = errors.New("plan upgrade required")
	// ErrNoFile is returned when an import receives no statement.
	ErrNoFile = errors.New("no file uploaded")
	// ErrNoTransactions is returned when a statement yields no valid transactions.
	ErrNoTransactions = errors.New("no transactions found in file")
)

// FieldError is a rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of one request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether err is a client input problem.
func IsValidation(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v) || errors.Is(err, ErrNoFile) || errors.Is(err, ErrNoTransactions)
}

func requirePlan(g plan.Gate, t plan.Tier, f plan.Feature) error {
	if err := plan.Check(g, t, f); err != nil {
		return fmt.Errorf("%w: %w", ErrPlanRequired, err)
	}
	return nil
}
