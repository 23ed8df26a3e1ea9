// Package quota implements the contract call ledger: the pure decision
// of what a single intervention call costs and how it moves the
// client's contract counter. Persistence of the outcome stays with the
// ticket service so the decision itself is trivially testable.
package quota

import (
	"fieldops/internal/core/types"
	"fieldops/internal/domain/clients"
	"fieldops/internal/domain/tariffs"
)

// Mutation describes the counter change to apply to the client row.
type Mutation struct {
	UsedBefore int
	UsedAfter  int
	Remaining  int
	Limit      int
}

// Decision is the billing outcome for one call.
type Decision struct {
	CallFee    types.Money
	HourlyRate types.Money

	// Mutation is nil when the call does not consume contract quota.
	Mutation *Mutation
}

// ResolveCallCost applies the contract billing rules to one call.
//
// Contract work on a rented printing device is covered by the rental
// agreement: no fee, no counter movement. Contract work under a call
// limit consumes one unit and bills the overage rate once the limit is
// exceeded. Contract work without a limit is free. Non-contract work is
// billed at the standard tariff for the category.
func ResolveCallCost(
	c *clients.Client,
	isContract bool,
	rentalHit bool,
	category tariffs.Category,
	callFeeFlag bool,
	rate tariffs.Rate,
) Decision {
	if isContract {
		if category == tariffs.CategoryPrinting && rentalHit {
			return Decision{CallFee: types.Zero(), HourlyRate: types.Zero()}
		}
		if c.HasCallLimit() {
			limit := *c.ContractCallLimit
			usedAfter := c.CallsUsed + 1

			fee := types.Zero()
			if usedAfter > limit && c.OverageCallRate != nil {
				fee = *c.OverageCallRate
			}
			remaining := limit - usedAfter
			if remaining < 0 {
				remaining = 0
			}
			return Decision{
				CallFee:    fee,
				HourlyRate: types.Zero(),
				Mutation: &Mutation{
					UsedBefore: c.CallsUsed,
					UsedAfter:  usedAfter,
					Remaining:  remaining,
					Limit:      limit,
				},
			}
		}
		return Decision{CallFee: types.Zero(), HourlyRate: types.Zero()}
	}

	fee := types.Zero()
	if callFeeFlag {
		fee = rate.CallRate
	}
	return Decision{CallFee: fee, HourlyRate: rate.HourlyRate}
}
