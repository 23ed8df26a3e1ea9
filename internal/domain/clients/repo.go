package clients

import "context"

// Filter narrows List results.
type Filter struct {
	Search           string // matches business name or VAT number
	OnlyWithContract bool
	OnlyWithRentals  bool
	Limit            int
	Offset           int
}

// Repository is the persistence contract for clients and sites.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id int64) (*Client, error)

	// GetByIDForUpdate loads the client with a row lock. Must be called
	// inside a transaction; the lock serializes quota mutations.
	GetByIDForUpdate(ctx context.Context, id int64) (*Client, error)

	// UpdateCallsUsed persists the quota counter alone, leaving the rest
	// of the row untouched.
	UpdateCallsUsed(ctx context.Context, id int64, callsUsed int) error

	List(ctx context.Context, f Filter) ([]Client, error)

	CreateSite(ctx context.Context, s *Site) error
	GetSite(ctx context.Context, id int64) (*Site, error)
	ListSites(ctx context.Context, clientID int64) ([]Site, error)
	DeleteSite(ctx context.Context, id int64) error
}
