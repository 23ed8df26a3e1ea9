package tickets

import (
	"context"
	"time"
)

// Filter narrows List results.
type Filter struct {
	ClientID *int64
	Year     *int
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string // matches number, client name or reported defect
	Limit    int
	Offset   int
}

// Repository is the persistence contract for tickets and their lines.
type Repository interface {
	// Create inserts the ticket together with its detail and part lines.
	Create(ctx context.Context, t *Ticket) error

	// Update rewrites the ticket and replaces its lines. Fails with a
	// state conflict when the stored version differs.
	Update(ctx context.Context, t *Ticket) error

	GetByID(ctx context.Context, id int64) (*Ticket, error)

	// GetByIDForUpdate loads the ticket with a row lock. Must run inside
	// a transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*Ticket, error)

	List(ctx context.Context, f Filter) ([]Ticket, error)
}

// Sequencer hands out the next ticket sequence for a year. The postgres
// implementation serializes callers so two tickets never share a
// number.
type Sequencer interface {
	NextSequence(ctx context.Context, year int) (int, error)
}
