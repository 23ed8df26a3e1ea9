package dto

import (
	"time"

	"fieldops/internal/core/cadence"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/assets"
)

// AssetRequest creates or updates a rental asset.
type AssetRequest struct {
	ClientID int64  `json:"clientId" binding:"required"`
	SiteID   *int64 `json:"siteId"`

	Kind   assets.Kind `json:"kind" binding:"required"`
	Brand  string      `json:"brand"`
	Model  string      `json:"model"`
	Serial string      `json:"serial"`

	InstallDate time.Time  `json:"installDate" binding:"required"`
	RentalEnd   *time.Time `json:"rentalEnd"`

	Cadence cadence.Cadence `json:"cadence"`

	BaselineMono  int `json:"baselineMono"`
	BaselineColor int `json:"baselineColor"`

	IncludedMonoPerMonth  *int `json:"includedMonoPerMonth"`
	IncludedColorPerMonth *int `json:"includedColorPerMonth"`

	OverageMonoRate  *types.Money `json:"overageMonoRate"`
	OverageColorRate *types.Money `json:"overageColorRate"`
}

// ToModel converts the request to a domain asset.
func (r AssetRequest) ToModel(id int64) *assets.RentalAsset {
	return &assets.RentalAsset{
		ID:                    id,
		ClientID:              r.ClientID,
		SiteID:                r.SiteID,
		Kind:                  r.Kind,
		Brand:                 r.Brand,
		Model:                 r.Model,
		Serial:                r.Serial,
		InstallDate:           r.InstallDate,
		RentalEnd:             r.RentalEnd,
		Cadence:               r.Cadence,
		BaselineMono:          r.BaselineMono,
		BaselineColor:         r.BaselineColor,
		IncludedMonoPerMonth:  r.IncludedMonoPerMonth,
		IncludedColorPerMonth: r.IncludedColorPerMonth,
		OverageMonoRate:       r.OverageMonoRate,
		OverageColorRate:      r.OverageColorRate,
	}
}
