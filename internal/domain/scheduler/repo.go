package scheduler

import (
	"context"
	"time"
)

// Repository provides the scan queries. Implementations page with the
// limit; a scan loops until it drains the window.
type Repository interface {
	// ExpiringContracts returns contracts ending within [from, to].
	ExpiringContracts(ctx context.Context, from, to time.Time, limit int) ([]ExpiringContract, error)

	// ExpiringRentals returns rentals ending within [from, to].
	ExpiringRentals(ctx context.Context, from, to time.Time, limit int) ([]ExpiringRental, error)

	// MeterReadingsDue returns printing assets whose next reading,
	// reference date plus cadence interval, falls within [from, to].
	MeterReadingsDue(ctx context.Context, from, to time.Time, limit int) ([]MeterDue, error)
}

// Notifier delivers one notification. Implementations live in the
// notify infrastructure package.
type Notifier interface {
	Dispatch(ctx context.Context, recipient, subject, body string) error
}

// Deduper suppresses repeat notifications for the same event across
// scan runs.
type Deduper interface {
	// Acquire reports whether the key was free and is now taken.
	Acquire(key string) bool
}
