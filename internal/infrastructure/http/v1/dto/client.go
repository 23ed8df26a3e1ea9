package dto

import (
	"time"

	"fieldops/internal/core/types"
	"fieldops/internal/domain/clients"
)

// ClientRequest creates or updates a client. The quota counter is not
// part of the payload; it only moves through ticket billing.
type ClientRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	VATNumber    string `json:"vatNumber"`
	AdminEmail   string `json:"adminEmail"`

	HasServiceContract bool         `json:"hasServiceContract"`
	ContractStart      *time.Time   `json:"contractStart"`
	ContractEnd        *time.Time   `json:"contractEnd"`
	ContractCallLimit  *int         `json:"contractCallLimit"`
	OverageCallRate    *types.Money `json:"overageCallRate"`

	HasRentalAssets bool `json:"hasRentalAssets"`
}

// ToModel converts the request to a domain client.
func (r ClientRequest) ToModel(id int64) *clients.Client {
	return &clients.Client{
		ID:                 id,
		BusinessName:       r.BusinessName,
		Address:            r.Address,
		City:               r.City,
		PostalCode:         r.PostalCode,
		VATNumber:          r.VATNumber,
		AdminEmail:         r.AdminEmail,
		HasServiceContract: r.HasServiceContract,
		ContractStart:      r.ContractStart,
		ContractEnd:        r.ContractEnd,
		ContractCallLimit:  r.ContractCallLimit,
		OverageCallRate:    r.OverageCallRate,
		HasRentalAssets:    r.HasRentalAssets,
	}
}

// SiteRequest attaches an operational location to a client.
type SiteRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ClientListQuery filters the client list.
type ClientListQuery struct {
	ListQuery
	WithContract bool `form:"withContract"`
	WithRentals  bool `form:"withRentals"`
}
