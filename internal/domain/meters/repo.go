package meters

import "context"

// Repository is the persistence contract for meter readings.
type Repository interface {
	Create(ctx context.Context, r *Reading) error

	// LastForAsset returns the most recent reading of an asset, or nil
	// when the asset has none yet.
	LastForAsset(ctx context.Context, assetID int64) (*Reading, error)

	ListByAsset(ctx context.Context, assetID int64, limit int) ([]Reading, error)
}
