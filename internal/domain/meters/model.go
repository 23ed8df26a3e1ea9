// Package meters implements page-counter readings for rented printing
// devices and the per-period overage billing derived from them.
package meters

import (
	"time"

	"fieldops/internal/core/types"
)

// Reading is one recorded counter snapshot. ReadAt is assigned by the
// server when the reading is recorded.
type Reading struct {
	ID       int64  `json:"id" db:"id"`
	AssetID  int64  `json:"assetId" db:"asset_id"`
	TicketID *int64 `json:"ticketId,omitempty" db:"ticket_id"`

	ReadAt time.Time `json:"readAt" db:"read_at"`
	Mono   int       `json:"mono" db:"mono"`
	Color  *int      `json:"color,omitempty" db:"color"`

	Note string `json:"note" db:"note"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PeriodBill is the billing outcome for the period closed by a reading.
// Reference values come from the previous reading, or from the asset
// baselines when this is the first reading.
type PeriodBill struct {
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Months      int       `json:"months"`

	PrintedMono  int `json:"printedMono"`
	IncludedMono int `json:"includedMono"`
	OverageMono  int `json:"overageMono"`

	PrintedColor  int `json:"printedColor"`
	IncludedColor int `json:"includedColor"`
	OverageColor  int `json:"overageColor"`

	CostMono  types.Money `json:"costMono"`
	CostColor types.Money `json:"costColor"`
	Total     types.Money `json:"total"`
}
