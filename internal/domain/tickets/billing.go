package tickets

import (
	"fieldops/internal/core/types"
)

// VATRate is the Italian standard VAT applied to ticket totals.
var VATRate = types.MustMoney("0.22")

var halfHour = types.MustMoney("0.5")

// LaborMinutes returns the worked duration in minutes. An end time
// earlier than the start time means the intervention ran past midnight.
func (t *Ticket) LaborMinutes() int {
	if t.StartTime == nil || t.EndTime == nil {
		return 0
	}
	minutes := t.EndTime.Minutes() - t.StartTime.Minutes()
	if minutes < 0 {
		minutes += 24 * 60
	}
	return minutes
}

// BilledHours converts worked minutes to billable hours. Anything under
// half an hour bills as half an hour; beyond that, started hours count
// in full.
func BilledHours(minutes int) types.Money {
	if minutes <= 0 {
		return types.Zero()
	}
	if minutes < 30 {
		return halfHour
	}
	hours := minutes / 60
	if minutes%60 != 0 {
		hours++
	}
	return types.NewMoneyFromInt(int64(hours))
}

// ComputeTotals derives the billing summary from the ticket's lines and
// its applied-rate snapshots. Labor cost is always computed for
// reference but not billed on contract work or rental device pickups.
func (t *Ticket) ComputeTotals() Totals {
	minutes := t.LaborMinutes()
	billedHours := BilledHours(minutes)
	laborCost := billedHours.Mul(t.HourlyRateApplied)

	billedLabor := laborCost
	if t.IsContract || t.IsRentalPickup {
		billedLabor = types.Zero()
	}

	partsTotal := types.Zero()
	for _, p := range t.Parts {
		partsTotal = partsTotal.Add(p.Total())
	}

	taxable := partsTotal.Add(t.ExtraCosts).Add(billedLabor).Add(t.CallFeeApplied)
	vat := taxable.Mul(VATRate).Round(2)

	return Totals{
		LaborMinutes: minutes,
		BilledHours:  billedHours,
		LaborCost:    laborCost,
		PartsTotal:   partsTotal,
		CallFee:      t.CallFeeApplied,
		ExtraCosts:   t.ExtraCosts,
		Taxable:      taxable,
		VAT:          vat,
		Total:        taxable.Add(vat),
	}
}
