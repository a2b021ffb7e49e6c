// Package export writes a user's ledger as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tallybook/tally/internal/model"
)

// Header is the CSV header of a ledger export.
const Header = "id,date,type,amount,signed_amount,description,category,goal,source,external_id,recurring"

const (
	numFields     = 11
	dateFormat    = "2006-01-02"
	colID         = 0
	colDate       = 1
	colType       = 2
	colAmount     = 3
	colSigned     = 4
	colDesc       = 5
	colCategory   = 6
	colGoal       = 7
	colSource     = 8
	colExternalID = 9
	colRecurring  = 10
)

// Names resolves category and goal ids to display names.
type Names struct {
	Categories map[uuid.UUID]string
	Goals      map[uuid.UUID]string
}

// NewNames indexes categories and goals by id.
func NewNames(cats []model.Category, goals []model.Goal) Names {
	n := Names{
		Categories: make(map[uuid.UUID]string, len(cats)),
		Goals:      make(map[uuid.UUID]string, len(goals)),
	}
	for _, c := range cats {
		n.Categories[c.ID] = c.Name
	}
	for _, g := range goals {
		n.Goals[g.ID] = g.Name
	}
	return n
}

func (n Names) lookup(m map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	if name, ok := m[*id]; ok {
		return name
	}
	return id.String()
}

// WriteTransactions writes txs to w, header first.
func WriteTransactions(w io.Writer, txs []model.Transaction, names Names) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx, names)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row. Expenses get a
// negative signed_amount.
func MarshalTransaction(tx model.Transaction, names Names) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID.String()
	row[colDate] = tx.Date.Format(dateFormat)
	row[colType] = string(tx.Type)
	row[colAmount] = tx.Amount.StringFixed(2)

	signed := tx.Amount
	if tx.Type == model.TypeExpense {
		signed = signed.Neg()
	}
	row[colSigned] = signed.StringFixed(2)

	row[colDesc] = tx.Description
	row[colCategory] = names.lookup(names.Categories, tx.CategoryID)
	row[colGoal] = names.lookup(names.Goals, tx.GoalID)
	row[colSource] = tx.Source
	if tx.ExternalID != nil {
		row[colExternalID] = *tx.ExternalID
	}
	row[colRecurring] = strconv.FormatBool(tx.IsRecurring)
	return row
}
