package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/types"
	"fieldops/internal/domain/clients"
	"fieldops/internal/domain/tariffs"
)

func contractClient(limit, used int, overage string) *clients.Client {
	rate := types.MustMoney(overage)
	return &clients.Client{
		HasServiceContract: true,
		ContractCallLimit:  &limit,
		CallsUsed:          used,
		OverageCallRate:    &rate,
	}
}

var stdRate = tariffs.Rate{
	HourlyRate: types.MustMoney("50"),
	CallRate:   types.MustMoney("30"),
}

func TestContractWithinLimit(t *testing.T) {
	c := contractClient(5, 4, "40")

	d := ResolveCallCost(c, true, false, tariffs.CategoryIT, true, stdRate)

	require.NotNil(t, d.Mutation)
	assert.Equal(t, 4, d.Mutation.UsedBefore)
	assert.Equal(t, 5, d.Mutation.UsedAfter)
	assert.Equal(t, 0, d.Mutation.Remaining)
	assert.True(t, d.CallFee.IsZero(), "fifth call of five is still included")
	assert.True(t, d.HourlyRate.IsZero())
}

func TestContractOverLimit(t *testing.T) {
	c := contractClient(5, 5, "40")

	d := ResolveCallCost(c, true, false, tariffs.CategoryIT, true, stdRate)

	require.NotNil(t, d.Mutation)
	assert.Equal(t, 6, d.Mutation.UsedAfter)
	assert.Equal(t, 0, d.Mutation.Remaining)
	assert.True(t, d.CallFee.Equal(types.MustMoney("40")), "sixth call bills the overage rate")
}

func TestContractRentalPrintingIsCovered(t *testing.T) {
	c := contractClient(5, 4, "40")

	d := ResolveCallCost(c, true, true, tariffs.CategoryPrinting, true, stdRate)

	assert.Nil(t, d.Mutation, "rental printing work must not consume quota")
	assert.True(t, d.CallFee.IsZero())
	assert.True(t, d.HourlyRate.IsZero())
}

func TestContractRentalHitOtherCategoryStillConsumes(t *testing.T) {
	c := contractClient(5, 0, "40")

	// A rental match only shields printing work.
	d := ResolveCallCost(c, true, true, tariffs.CategoryIT, true, stdRate)

	require.NotNil(t, d.Mutation)
	assert.Equal(t, 1, d.Mutation.UsedAfter)
	assert.Equal(t, 4, d.Mutation.Remaining)
}

func TestContractWithoutLimit(t *testing.T) {
	c := &clients.Client{HasServiceContract: true}

	d := ResolveCallCost(c, true, false, tariffs.CategoryMaintenance, true, stdRate)

	assert.Nil(t, d.Mutation)
	assert.True(t, d.CallFee.IsZero())
	assert.True(t, d.HourlyRate.IsZero())
}

func TestNonContractStandardTariff(t *testing.T) {
	c := &clients.Client{}

	d := ResolveCallCost(c, false, false, tariffs.CategoryIT, true, stdRate)
	assert.Nil(t, d.Mutation)
	assert.True(t, d.CallFee.Equal(types.MustMoney("30")))
	assert.True(t, d.HourlyRate.Equal(types.MustMoney("50")))

	// Without the call-fee flag only labor is billed.
	d = ResolveCallCost(c, false, false, tariffs.CategoryIT, false, stdRate)
	assert.True(t, d.CallFee.IsZero())
	assert.True(t, d.HourlyRate.Equal(types.MustMoney("50")))
}
