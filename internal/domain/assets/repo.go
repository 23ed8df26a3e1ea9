package assets

import "context"

// Repository is the persistence contract for rental assets.
type Repository interface {
	Create(ctx context.Context, a *RentalAsset) error
	Update(ctx context.Context, a *RentalAsset) error
	GetByID(ctx context.Context, id int64) (*RentalAsset, error)

	// GetByIDForUpdate loads the asset with a row lock, serializing
	// concurrent meter-reading inserts. Must run inside a transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*RentalAsset, error)

	// ListByClient returns every asset of a client, active rentals first.
	ListByClient(ctx context.Context, clientID int64) ([]RentalAsset, error)

	Delete(ctx context.Context, id int64) error
}
