package tickets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops/internal/core/types"
)

func tod(h, m int) *TimeOfDay {
	return &TimeOfDay{Hour: h, Minute: m}
}

func TestBilledHours(t *testing.T) {
	tests := []struct {
		name    string
		start   *TimeOfDay
		end     *TimeOfDay
		minutes int
		hours   string
	}{
		{"no times", nil, nil, 0, "0"},
		{"25 minutes bills half an hour", tod(9, 0), tod(9, 25), 25, "0.5"},
		{"exactly 30 minutes bills one hour", tod(9, 0), tod(9, 30), 30, "1"},
		{"31 minutes bills one hour", tod(9, 0), tod(9, 31), 31, "1"},
		{"one hour exact", tod(9, 0), tod(10, 0), 60, "1"},
		{"started third hour bills in full", tod(9, 0), tod(11, 5), 125, "3"},
		{"overnight wraps past midnight", tod(23, 30), tod(0, 30), 60, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &Ticket{StartTime: tt.start, EndTime: tt.end}
			minutes := tk.LaborMinutes()
			assert.Equal(t, tt.minutes, minutes)
			assert.True(t, BilledHours(minutes).Equal(types.MustMoney(tt.hours)),
				"got %s, want %s", BilledHours(minutes), tt.hours)
		})
	}
}

func TestComputeTotalsStandard(t *testing.T) {
	tk := &Ticket{
		StartTime:         tod(9, 0),
		EndTime:           tod(11, 5),
		HourlyRateApplied: types.MustMoney("50"),
		CallFeeApplied:    types.MustMoney("30"),
		ExtraCosts:        types.MustMoney("10"),
		Parts: []PartLine{
			{Description: "Toner", Quantity: 2, UnitPrice: types.MustMoney("45.50")},
		},
	}

	totals := tk.ComputeTotals()

	assert.True(t, totals.BilledHours.Equal(types.MustMoney("3")))
	assert.True(t, totals.LaborCost.Equal(types.MustMoney("150")))
	assert.True(t, totals.PartsTotal.Equal(types.MustMoney("91")))
	// 91 + 10 + 150 + 30 = 281
	assert.True(t, totals.Taxable.Equal(types.MustMoney("281")))
	assert.True(t, totals.VAT.Equal(types.MustMoney("61.82")))
	assert.True(t, totals.Total.Equal(types.MustMoney("342.82")))
}

func TestComputeTotalsContractExcludesLabor(t *testing.T) {
	tk := &Ticket{
		IsContract:        true,
		StartTime:         tod(9, 0),
		EndTime:           tod(12, 0),
		HourlyRateApplied: types.Zero(),
		CallFeeApplied:    types.MustMoney("40"), // overage fee
		ExtraCosts:        types.Zero(),
	}

	totals := tk.ComputeTotals()

	assert.True(t, totals.LaborCost.IsZero()) // contract hourly rate is zero
	assert.True(t, totals.Taxable.Equal(types.MustMoney("40")))
}

func TestComputeTotalsRentalPickupExcludesLabor(t *testing.T) {
	tk := &Ticket{
		IsRentalPickup:    true,
		StartTime:         tod(14, 0),
		EndTime:           tod(15, 0),
		HourlyRateApplied: types.MustMoney("50"),
		CallFeeApplied:    types.Zero(),
		ExtraCosts:        types.Zero(),
	}

	totals := tk.ComputeTotals()

	// Labor cost is still reported for reference but not billed.
	assert.True(t, totals.LaborCost.Equal(types.MustMoney("50")))
	assert.True(t, totals.Taxable.IsZero())
}
