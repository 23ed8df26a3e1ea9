// Package assets manages the rental fleet: devices installed at client
// sites under rental agreements. Printing assets additionally carry
// meter-billing parameters (baselines, included page allowances and
// overage rates).
package assets

import (
	"time"

	"fieldops/internal/core/cadence"
	"fieldops/internal/core/types"
)

// Kind distinguishes metered printing devices from plain IT equipment.
type Kind string

const (
	KindPrinting Kind = "Printing"
	KindIT       Kind = "IT"
)

func (k Kind) Valid() bool {
	return k == KindPrinting || k == KindIT
}

// RentalAsset is one rented device. Meter fields apply to printing
// assets only and are ignored for IT equipment.
type RentalAsset struct {
	ID       int64  `json:"id" db:"id"`
	ClientID int64  `json:"clientId" db:"client_id"`
	SiteID   *int64 `json:"siteId,omitempty" db:"site_id"`

	Kind   Kind   `json:"kind" db:"kind"`
	Brand  string `json:"brand" db:"brand"`
	Model  string `json:"model" db:"model"`
	Serial string `json:"serial" db:"serial"`

	InstallDate time.Time  `json:"installDate" db:"install_date"`
	RentalEnd   *time.Time `json:"rentalEnd,omitempty" db:"rental_end"`

	Cadence cadence.Cadence `json:"cadence" db:"cadence"`

	BaselineMono  int `json:"baselineMono" db:"baseline_mono"`
	BaselineColor int `json:"baselineColor" db:"baseline_color"`

	IncludedMonoPerMonth  *int `json:"includedMonoPerMonth,omitempty" db:"included_mono_per_month"`
	IncludedColorPerMonth *int `json:"includedColorPerMonth,omitempty" db:"included_color_per_month"`

	OverageMonoRate  *types.Money `json:"overageMonoRate,omitempty" db:"overage_mono_rate"`
	OverageColorRate *types.Money `json:"overageColorRate,omitempty" db:"overage_color_rate"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Metered reports whether the asset participates in meter billing.
func (a *RentalAsset) Metered() bool {
	return a.Kind == KindPrinting
}

// Active reports whether the rental is still running at the given time.
func (a *RentalAsset) Active(at time.Time) bool {
	return a.RentalEnd == nil || a.RentalEnd.After(at)
}
