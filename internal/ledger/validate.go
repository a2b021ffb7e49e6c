package ledger

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tallybook/tally/internal/model"
)

const (
	maxDescription = 255
	maxGoalName    = 100
	maxColor       = 16
)

var hundred = decimal.NewFromInt(100)

// hasCents reports whether d fits in two decimal places.
func hasCents(d decimal.Decimal) bool {
	return d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}

// validateTransaction checks a transaction about to be written.
func validateTransaction(t *model.Transaction) ValidationErrors {
	var errs ValidationErrors

	if t.Amount.IsNegative() {
		errs = append(errs, FieldError{"amount", "must not be negative"})
	} else if !hasCents(t.Amount) {
		errs = append(errs, FieldError{"amount", fmt.Sprintf("%s has more than 2 decimal places", t.Amount)})
	}
	if !t.Type.Valid() {
		errs = append(errs, FieldError{"type", fmt.Sprintf("unknown type %q", t.Type)})
	}
	if t.Date.IsZero() {
		errs = append(errs, FieldError{"date", "is required"})
	}
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, FieldError{"description", "is required"})
	} else if n := utf8.RuneCountInString(t.Description); n > maxDescription {
		errs = append(errs, FieldError{"description", fmt.Sprintf("is %d characters, max %d", n, maxDescription)})
	}
	return errs
}

// validateGoal checks the user-editable fields of a goal.
func validateGoal(g *model.Goal) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, FieldError{"name", "is required"})
	} else if utf8.RuneCountInString(g.Name) > maxGoalName {
		errs = append(errs, FieldError{"name", fmt.Sprintf("max %d characters", maxGoalName)})
	}
	if !g.TargetAmount.IsPositive() {
		errs = append(errs, FieldError{"targetAmount", "must be positive"})
	} else if !hasCents(g.TargetAmount) {
		errs = append(errs, FieldError{"targetAmount", fmt.Sprintf("%s has more than 2 decimal places", g.TargetAmount)})
	}
	if utf8.RuneCountInString(g.Color) > maxColor {
		errs = append(errs, FieldError{"color", fmt.Sprintf("max %d characters", maxColor)})
	}
	return errs
}
