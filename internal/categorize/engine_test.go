package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook/tally/internal/model"
)

// mockHistory implements History for testing.
type mockHistory struct {
	byDesc map[string]uuid.UUID
	err    error
	calls  int
}

func (m *mockHistory) LatestCategoryFor(_ context.Context, _ uuid.UUID, description string) (*uuid.UUID, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if id, ok := m.byDesc[description]; ok {
		return &id, nil
	}
	return nil, nil
}

// mockCategories implements Categories, creating each (name, type) once.
type mockCategories struct {
	byKey map[string]model.Category
}

func newMockCategories() *mockCategories {
	return &mockCategories{byKey: make(map[string]model.Category)}
}

func (m *mockCategories) FindOrCreateCategory(_ context.Context, name string, typ model.TransactionType) (model.Category, error) {
	key := name + "/" + string(typ)
	if c, ok := m.byKey[key]; ok {
		return c, nil
	}
	c := model.Category{ID: uuid.New(), Name: name, Type: typ}
	m.byKey[key] = c
	return c, nil
}

func (m *mockCategories) name(id uuid.UUID) string {
	for _, c := range m.byKey {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func TestForImport_KeywordFallback(t *testing.T) {
	cats := newMockCategories()
	e := NewEngine(&mockHistory{}, cats, nil)

	res, err := e.ForImport(context.Background(), uuid.New(), model.Draft{
		Description: "Uber trip 123",
		Type:        model.TypeExpense,
	})
	require.NoError(t, err)
	require.NotNil(t, res.CategoryID)
	assert.Equal(t, SourceKeyword, res.Source)
	assert.Equal(t, "Transport", cats.name(*res.CategoryID))
	assert.Equal(t, model.TypeExpense, cats.byKey["Transport/expense"].Type)
}

func TestForImport_HistoryWins(t *testing.T) {
	housing := uuid.New()
	hist := &mockHistory{byDesc: map[string]uuid.UUID{"Monthly Rent": housing}}
	e := NewEngine(hist, newMockCategories(), nil)

	res, err := e.ForImport(context.Background(), uuid.New(), model.Draft{
		Description: "Monthly Rent",
		Type:        model.TypeExpense,
	})
	require.NoError(t, err)
	require.NotNil(t, res.CategoryID)
	assert.Equal(t, housing, *res.CategoryID)
	assert.Equal(t, SourceHistory, res.Source)
}

func TestForImport_HistoryBeatsKeyword(t *testing.T) {
	personal := uuid.New()
	hist := &mockHistory{byDesc: map[string]uuid.UUID{"Uber trip 123": personal}}
	cats := newMockCategories()
	e := NewEngine(hist, cats, nil)

	res, err := e.ForImport(context.Background(), uuid.New(), model.Draft{Description: "Uber trip 123", Type: model.TypeExpense})
	require.NoError(t, err)
	assert.Equal(t, personal, *res.CategoryID)
	assert.Empty(t, cats.byKey, "keyword tier must not run")
}

func TestForImport_NoMatch(t *testing.T) {
	cats := newMockCategories()
	e := NewEngine(&mockHistory{}, cats, nil)

	res, err := e.ForImport(context.Background(), uuid.New(), model.Draft{Description: "Monthly Rent", Type: model.TypeExpense})
	require.NoError(t, err)
	assert.Nil(t, res.CategoryID)
	assert.Equal(t, SourceNone, res.Source)
	assert.Empty(t, cats.byKey)
}

func TestCategorize_HistoryError(t *testing.T) {
	e := NewEngine(&mockHistory{err: errors.New("db down")}, newMockCategories(), nil)

	_, err := e.ForImport(context.Background(), uuid.New(), model.Draft{Description: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history lookup")
}

func TestForManual_TableSelection(t *testing.T) {
	tests := []struct {
		name  string
		desc  string
		typ   model.TransactionType
		smart bool
		want  string
	}{
		{"free tier has no housing rule", "Office rent", model.TypeExpense, false, ""},
		{"smart expense table", "Office rent", model.TypeExpense, true, "Housing"},
		{"smart income table", "Invoice 88 paid", model.TypeIncome, true, "Sales"},
		{"free salary", "March salary", model.TypeIncome, false, "Salary"},
		{"smart expense software", "GitHub Team", model.TypeExpense, true, "Software"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := newMockCategories()
			e := NewEngine(&mockHistory{}, cats, nil)

			res, err := e.ForManual(context.Background(), uuid.New(), tt.desc, tt.typ, tt.smart)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, res.CategoryID)
				return
			}
			require.NotNil(t, res.CategoryID)
			assert.Equal(t, tt.want, cats.name(*res.CategoryID))
			assert.Equal(t, tt.typ, cats.byKey[tt.want+"/"+string(tt.typ)].Type)
		})
	}
}

func TestNewEngine_CustomBook(t *testing.T) {
	book := &RuleBook{Version: 9, Import: Table{{Category: "Coffee", Keywords: []string{"espresso"}}}}
	cats := newMockCategories()
	e := NewEngine(&mockHistory{}, cats, book)
	assert.Equal(t, 9, e.Book().Version)

	res, err := e.ForImport(context.Background(), uuid.New(), model.Draft{Description: "Double ESPRESSO", Type: model.TypeExpense})
	require.NoError(t, err)
	require.NotNil(t, res.CategoryID)
	assert.Equal(t, "Coffee", res.Category)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("  "))
	assert.True(t, IsPlaceholder("Other"))
	assert.True(t, IsPlaceholder("other"))
	assert.False(t, IsPlaceholder("Housing"))
}
