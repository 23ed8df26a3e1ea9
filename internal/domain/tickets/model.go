// Package tickets implements intervention tickets: numbered service
// reports that snapshot client data, bill labor and parts, and drive
// the contract call ledger.
package tickets

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/tariffs"
)

// TimeOfDay is a wall-clock time without a date, serialized as "15:04".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the offset from midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time as "15:04" text.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan reads the time back from its text form.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute()}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

// ParseTimeOfDay parses "15:04" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, apperror.NewValidationf("invalid time %q, expected HH:MM", s)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// DetailLine describes one device the technician worked on.
type DetailLine struct {
	BrandModel  string `json:"brandModel" db:"brand_model"`
	Serial      string `json:"serial" db:"serial"`
	PartNumber  string `json:"partNumber" db:"part_number"`
	Description string `json:"description" db:"description"`
}

// PartLine is one billed spare part or consumable.
type PartLine struct {
	Description string      `json:"description" db:"description"`
	Quantity    int         `json:"quantity" db:"quantity"`
	UnitPrice   types.Money `json:"unitPrice" db:"unit_price"`
}

// Total returns quantity times unit price.
func (p PartLine) Total() types.Money {
	return p.UnitPrice.Mul(types.NewMoneyFromInt(int64(p.Quantity)))
}

// Ticket is an intervention report. Client and billing fields are
// snapshots taken at creation time so later registry edits never
// change an issued document.
type Ticket struct {
	ID     int64  `json:"id" db:"id"`
	Number string `json:"number" db:"number"`
	Year   int    `json:"year" db:"year"`

	ClientID int64  `json:"clientId" db:"client_id"`
	SiteID   *int64 `json:"siteId,omitempty" db:"site_id"`

	// Registry snapshots.
	ClientName    string `json:"clientName" db:"client_name"`
	ClientAddress string `json:"clientAddress" db:"client_address"`
	SiteName      string `json:"siteName,omitempty" db:"site_name"`
	SiteAddress   string `json:"siteAddress,omitempty" db:"site_address"`

	Date     time.Time        `json:"date" db:"date"`
	Category tariffs.Category `json:"category" db:"category"`

	IsContract     bool `json:"isContract" db:"is_contract"`
	IsRentalPickup bool `json:"isRentalPickup" db:"is_rental_pickup"`
	CallFeeFlag    bool `json:"callFeeFlag" db:"call_fee_flag"`

	StartTime *TimeOfDay `json:"startTime,omitempty" db:"start_time"`
	EndTime   *TimeOfDay `json:"endTime,omitempty" db:"end_time"`

	ReportedDefect string `json:"reportedDefect" db:"reported_defect"`
	WorkPerformed  string `json:"workPerformed" db:"work_performed"`
	TechnicianName string `json:"technicianName" db:"technician_name"`

	Details []DetailLine `json:"details" db:"-"`
	Parts   []PartLine   `json:"parts" db:"-"`

	ExtraCosts types.Money `json:"extraCosts" db:"extra_costs"`

	// Billing snapshots resolved at creation.
	CallFeeApplied    types.Money `json:"callFeeApplied" db:"call_fee_applied"`
	HourlyRateApplied types.Money `json:"hourlyRateApplied" db:"hourly_rate_applied"`

	// Quota snapshots, nil when the ticket consumed no contract quota.
	CallsUsedAtTicket      *int `json:"callsUsedAtTicket,omitempty" db:"calls_used_at_ticket"`
	CallsRemainingAtTicket *int `json:"callsRemainingAtTicket,omitempty" db:"calls_remaining_at_ticket"`
	ContractLimitAtTicket  *int `json:"contractLimitAtTicket,omitempty" db:"contract_limit_at_ticket"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Totals is the computed billing summary of a ticket.
type Totals struct {
	LaborMinutes int         `json:"laborMinutes"`
	BilledHours  types.Money `json:"billedHours"`
	LaborCost    types.Money `json:"laborCost"`
	PartsTotal   types.Money `json:"partsTotal"`
	CallFee      types.Money `json:"callFee"`
	ExtraCosts   types.Money `json:"extraCosts"`
	Taxable      types.Money `json:"taxable"`
	VAT          types.Money `json:"vat"`
	Total        types.Money `json:"total"`
}
