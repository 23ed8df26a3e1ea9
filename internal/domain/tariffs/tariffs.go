// Package tariffs defines intervention categories and the per-category
// tariff table applied to tickets outside assistance contracts.
package tariffs

import (
	"fmt"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/types"
)

// Category classifies a technical intervention.
type Category string

const (
	CategoryPrinting    Category = "Printing & Office"
	CategoryIT          Category = "IT"
	CategoryMaintenance Category = "Maintenance"
	CategoryFiscal      Category = "Fiscal Systems"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPrinting, CategoryIT, CategoryMaintenance, CategoryFiscal:
		return true
	}
	return false
}

// Rate holds the standard tariff for one category.
type Rate struct {
	HourlyRate types.Money
	CallRate   types.Money
}

// Standard fallback rates applied when a category has no explicit entry.
var (
	defaultHourlyRate = types.MustMoney("50.00")
	defaultCallRate   = types.MustMoney("30.00")
)

// Table maps categories to their standard rates.
type Table map[Category]Rate

// Default returns a table with the standard rates for every category.
func Default() Table {
	t := make(Table, 4)
	for _, c := range []Category{CategoryPrinting, CategoryIT, CategoryMaintenance, CategoryFiscal} {
		t[c] = Rate{HourlyRate: defaultHourlyRate, CallRate: defaultCallRate}
	}
	return t
}

// For returns the rate for a category, falling back to the standard
// defaults when the category has no explicit entry.
func (t Table) For(c Category) Rate {
	if r, ok := t[c]; ok {
		return r
	}
	return Rate{HourlyRate: defaultHourlyRate, CallRate: defaultCallRate}
}

// Validate checks the table invariants. Rates must be non-negative and
// every key must name a known category. Called once at config load.
func (t Table) Validate() error {
	for c, r := range t {
		if !c.Valid() {
			return apperror.NewValidation(fmt.Sprintf("unknown tariff category %q", c)).
				WithDetail("category", string(c))
		}
		if r.HourlyRate.IsNegative() {
			return apperror.NewValidation("hourly rate must not be negative").
				WithDetail("category", string(c)).
				WithDetail("hourly_rate", r.HourlyRate.String())
		}
		if r.CallRate.IsNegative() {
			return apperror.NewValidation("call rate must not be negative").
				WithDetail("category", string(c)).
				WithDetail("call_rate", r.CallRate.String())
		}
	}
	return nil
}
