// Package plan turns the plan-tier string supplied by the billing layer into
// yes/no feature decisions.
package plan

import (
	"fmt"
	"strings"
)

// Tier is a subscription plan.
type Tier string

const (
	Free     Tier = "free"
	Pro      Tier = "pro"
	Business Tier = "business"
)

// ParseTier normalizes a tier name. Anything unrecognized is treated as Free.
func ParseTier(s string) Tier {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case Pro, Business:
		return t
	default:
		return Free
	}
}

// IsPaid reports whether t is a paying tier.
func (t Tier) IsPaid() bool {
	return t != Free && t != ""
}

// Feature is a plan-gated capability.
type Feature string

const (
	// Recurring allows flagging transactions as recurring.
	Recurring Feature = "recurring"
	// SmartCategories selects the richer income/expense keyword tables on manual entry.
	SmartCategories Feature = "smart_categories"
)

// Gate decides whether a tier may use a feature.
type Gate interface {
	Allows(t Tier, f Feature) bool
}

// Entitlements is a static Gate: tier -> enabled features.
type Entitlements map[Tier]map[Feature]bool

// DefaultEntitlements enables every feature on paid tiers and none on Free.
func DefaultEntitlements() Entitlements {
	paid := map[Feature]bool{Recurring: true, SmartCategories: true}
	return Entitlements{
		Free:     {},
		Pro:      paid,
		Business: paid,
	}
}

// FromConfig builds Entitlements from a tier -> feature-names table. An empty
// table yields DefaultEntitlements; tiers not listed keep their defaults.
func FromConfig(table map[string][]string) (Entitlements, error) {
	e := DefaultEntitlements()
	for tierName, features := range table {
		tier := Tier(strings.ToLower(tierName))
		if tier != Free && tier != Pro && tier != Business {
			return nil, fmt.Errorf("unknown plan tier %q", tierName)
		}
		set := make(map[Feature]bool, len(features))
		for _, f := range features {
			feat := Feature(strings.ToLower(f))
			if feat != Recurring && feat != SmartCategories {
				return nil, fmt.Errorf("unknown feature %q for tier %q", f, tierName)
			}
			set[feat] = true
		}
		e[tier] = set
	}
	return e, nil
}

// Allows implements Gate.
func (e Entitlements) Allows(t Tier, f Feature) bool {
	return e[t][f]
}

// RequiredError reports a feature the caller's tier is not entitled to.
type RequiredError struct {
	Tier    Tier
	Feature Feature
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("feature %q is not available on the %s plan", e.Feature, e.Tier)
}

// Check returns a *RequiredError when g does not allow f for t.
func Check(g Gate, t Tier, f Feature) error {
	if g.Allows(t, f) {
		return nil
	}
	return &RequiredError{Tier: t, Feature: f}
}
