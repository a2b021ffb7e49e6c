package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tallybook/tally/internal/model"
)

// Rule maps any of its keywords, matched as case-insensitive substrings of a
// description, to a category name.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Matches reports whether any keyword occurs in desc, ignoring case.
func (r Rule) Matches(desc string) bool {
	lower := strings.ToLower(desc)
	for _, kw := range r.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Table is an ordered rule list; the first matching rule wins.
type Table []Rule

// Match returns the category of the first rule matching desc.
func (t Table) Match(desc string) (string, bool) {
	for _, r := range t {
		if r.Matches(desc) {
			return r.Category, true
		}
	}
	return "", false
}

// RuleBook is the versioned set of keyword tables used for inference.
type RuleBook struct {
	Version int   `yaml:"version"`
	Import  Table `yaml:"import"`  // statement imports
	Free    Table `yaml:"free"`    // manual entry without smart categories
	Income  Table `yaml:"income"`  // manual income entry with smart categories
	Expense Table `yaml:"expense"` // manual expense entry with smart categories
}

// ManualTable selects the table for a manually entered transaction.
func (b *RuleBook) ManualTable(typ model.TransactionType, smart bool) Table {
	if !smart {
		return b.Free
	}
	if typ == model.TypeIncome {
		return b.Income
	}
	return b.Expense
}

// Validate checks that every rule names a category and has at least one keyword.
func (b *RuleBook) Validate() error {
	tables := []struct {
		name  string
		table Table
	}{
		{"import", b.Import},
		{"free", b.Free},
		{"income", b.Income},
		{"expense", b.Expense},
	}
	for _, tt := range tables {
		for i, r := range tt.table {
			if strings.TrimSpace(r.Category) == "" {
				return fmt.Errorf("%s rule %d: missing category", tt.name, i+1)
			}
			if len(r.Keywords) == 0 {
				return fmt.Errorf("%s rule %d (%s): no keywords", tt.name, i+1, r.Category)
			}
		}
	}
	return nil
}

// LoadRuleBook reads a rule book from a YAML file.
func LoadRuleBook(path string) (*RuleBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var book RuleBook
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}
	return &book, nil
}

// SaveRuleBook writes a rule book to a YAML file.
func SaveRuleBook(path string, book *RuleBook) error {
	data, err := yaml.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
