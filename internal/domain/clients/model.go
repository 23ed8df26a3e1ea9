// Package clients holds the client registry: companies served by the
// field-service organization, their sites and their assistance-contract
// terms including the per-contract call quota.
package clients

import (
	"time"

	"fieldops/internal/core/types"
)

// Client is a company in the registry. Contract fields are only
// meaningful when HasServiceContract is set.
type Client struct {
	ID           int64  `json:"id" db:"id"`
	BusinessName string `json:"businessName" db:"business_name"`
	Address      string `json:"address" db:"address"`
	City         string `json:"city" db:"city"`
	PostalCode   string `json:"postalCode" db:"postal_code"`
	VATNumber    string `json:"vatNumber" db:"vat_number"`
	AdminEmail   string `json:"adminEmail" db:"admin_email"`

	HasServiceContract bool         `json:"hasServiceContract" db:"has_service_contract"`
	ContractStart      *time.Time   `json:"contractStart,omitempty" db:"contract_start"`
	ContractEnd        *time.Time   `json:"contractEnd,omitempty" db:"contract_end"`
	ContractCallLimit  *int         `json:"contractCallLimit,omitempty" db:"contract_call_limit"`
	CallsUsed          int          `json:"callsUsed" db:"calls_used"`
	OverageCallRate    *types.Money `json:"overageCallRate,omitempty" db:"overage_call_rate"`

	HasRentalAssets bool `json:"hasRentalAssets" db:"has_rental_assets"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasCallLimit reports whether the client's contract caps the number of
// included assistance calls.
func (c *Client) HasCallLimit() bool {
	return c.HasServiceContract && c.ContractCallLimit != nil
}

// CallsRemaining returns the number of contract calls still included,
// never negative. Zero when the contract has no limit.
func (c *Client) CallsRemaining() int {
	if !c.HasCallLimit() {
		return 0
	}
	if rem := *c.ContractCallLimit - c.CallsUsed; rem > 0 {
		return rem
	}
	return 0
}

// Site is an operational location of a client where interventions take
// place. Tickets reference a site optionally.
type Site struct {
	ID       int64  `json:"id" db:"id"`
	ClientID int64  `json:"clientId" db:"client_id"`
	Name     string `json:"name" db:"name"`
	Address  string `json:"address" db:"address"`
}
