package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"free", Free},
		{"PRO", Pro},
		{" business ", Business},
		{"", Free},
		{"enterprise", Free},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTier(tt.in), "ParseTier(%q)", tt.in)
	}
}

func TestIsPaid(t *testing.T) {
	assert.False(t, Free.IsPaid())
	assert.True(t, Pro.IsPaid())
	assert.True(t, Business.IsPaid())
}

func TestDefaultEntitlements(t *testing.T) {
	e := DefaultEntitlements()
	assert.False(t, e.Allows(Free, Recurring))
	assert.False(t, e.Allows(Free, SmartCategories))
	assert.True(t, e.Allows(Pro, Recurring))
	assert.True(t, e.Allows(Business, SmartCategories))
	assert.False(t, e.Allows(Tier("unknown"), Recurring))
}

func TestFromConfig(t *testing.T) {
	e, err := FromConfig(map[string][]string{
		"free": {"smart_categories"},
		"Pro":  {"recurring"},
	})
	require.NoError(t, err)

	assert.True(t, e.Allows(Free, SmartCategories))
	assert.False(t, e.Allows(Free, Recurring))
	assert.True(t, e.Allows(Pro, Recurring))
	assert.False(t, e.Allows(Pro, SmartCategories))
	assert.True(t, e.Allows(Business, SmartCategories), "unlisted tiers keep defaults")
}

func TestFromConfig_Unknown(t *testing.T) {
	_, err := FromConfig(map[string][]string{"gold": {"recurring"}})
	assert.ErrorContains(t, err, "unknown plan tier")

	_, err = FromConfig(map[string][]string{"pro": {"teleport"}})
	assert.ErrorContains(t, err, "unknown feature")
}

func TestCheck(t *testing.T) {
	e := DefaultEntitlements()
	assert.NoError(t, Check(e, Pro, Recurring))

	err := Check(e, Free, Recurring)
	var re *RequiredError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, Free, re.Tier)
	assert.Equal(t, Recurring, re.Feature)
	assert.Contains(t, err.Error(), "free plan")
}
