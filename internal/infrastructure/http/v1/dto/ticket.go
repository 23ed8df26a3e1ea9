package dto

import (
	"time"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/tariffs"
	"fieldops/internal/domain/tickets"
)

// TicketRequest creates or updates a ticket. Billing snapshots and the
// number are never accepted from the client.
type TicketRequest struct {
	ClientID int64  `json:"clientId" binding:"required"`
	SiteID   *int64 `json:"siteId"`

	Date     time.Time        `json:"date"`
	Category tariffs.Category `json:"category" binding:"required"`

	IsContract     bool `json:"isContract"`
	IsRentalPickup bool `json:"isRentalPickup"`
	CallFeeFlag    bool `json:"callFeeFlag"`

	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	ReportedDefect string `json:"reportedDefect"`
	WorkPerformed  string `json:"workPerformed"`
	TechnicianName string `json:"technicianName"`

	Details []tickets.DetailLine `json:"details"`
	Parts   []tickets.PartLine   `json:"parts"`

	ExtraCosts *types.Money `json:"extraCosts"`
}

// ToModel converts the request to a domain ticket.
func (r TicketRequest) ToModel(id int64) (*tickets.Ticket, error) {
	t := &tickets.Ticket{
		ID:             id,
		ClientID:       r.ClientID,
		SiteID:         r.SiteID,
		Date:           r.Date,
		Category:       r.Category,
		IsContract:     r.IsContract,
		IsRentalPickup: r.IsRentalPickup,
		CallFeeFlag:    r.CallFeeFlag,
		ReportedDefect: r.ReportedDefect,
		WorkPerformed:  r.WorkPerformed,
		TechnicianName: r.TechnicianName,
		Details:        r.Details,
		Parts:          r.Parts,
		ExtraCosts:     types.Zero(),
	}
	if r.ExtraCosts != nil {
		t.ExtraCosts = *r.ExtraCosts
	}

	if r.StartTime != "" {
		parsed, err := tickets.ParseTimeOfDay(r.StartTime)
		if err != nil {
			return nil, apperror.NewValidation("invalid start time").WithDetail("value", r.StartTime)
		}
		t.StartTime = &parsed
	}
	if r.EndTime != "" {
		parsed, err := tickets.ParseTimeOfDay(r.EndTime)
		if err != nil {
			return nil, apperror.NewValidation("invalid end time").WithDetail("value", r.EndTime)
		}
		t.EndTime = &parsed
	}
	return t, nil
}

// TicketResponse returns a ticket with its computed billing summary.
type TicketResponse struct {
	Ticket *tickets.Ticket `json:"ticket"`
	Totals tickets.Totals  `json:"totals"`
}

// NewTicketResponse builds the response for one ticket.
func NewTicketResponse(t *tickets.Ticket) TicketResponse {
	return TicketResponse{Ticket: t, Totals: t.ComputeTotals()}
}

// TicketListQuery filters the ticket list.
type TicketListQuery struct {
	ListQuery
	ClientID *int64     `form:"clientId"`
	Year     *int       `form:"year"`
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02"`
}
