// Package scheduler implements the periodic scans that warn
// administrators about expiring contracts, expiring rentals and meter
// readings coming due.
package scheduler

import (
	"time"

	"fieldops/internal/core/cadence"
)

// ExpiringContract is one assistance contract inside the warning window.
type ExpiringContract struct {
	ClientID     int64     `db:"client_id"`
	BusinessName string    `db:"business_name"`
	AdminEmail   string    `db:"admin_email"`
	ContractEnd  time.Time `db:"contract_end"`
}

// ExpiringRental is one rental agreement inside the warning window.
type ExpiringRental struct {
	AssetID      int64     `db:"asset_id"`
	ClientID     int64     `db:"client_id"`
	BusinessName string    `db:"business_name"`
	AdminEmail   string    `db:"admin_email"`
	Brand        string    `db:"brand"`
	Model        string    `db:"model"`
	Serial       string    `db:"serial"`
	RentalEnd    time.Time `db:"rental_end"`
}

// MeterDue is a printing asset whose next reading falls inside the
// warning window. RefDate is the last reading date, or the install date
// when the asset has no readings yet.
type MeterDue struct {
	AssetID      int64           `db:"asset_id"`
	ClientID     int64           `db:"client_id"`
	BusinessName string          `db:"business_name"`
	AdminEmail   string          `db:"admin_email"`
	Brand        string          `db:"brand"`
	Model        string          `db:"model"`
	Cadence      cadence.Cadence `db:"cadence"`
	RefDate      time.Time       `db:"ref_date"`
	DueDate      time.Time       `db:"due_date"`
}
