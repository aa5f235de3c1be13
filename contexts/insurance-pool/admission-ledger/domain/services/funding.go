package services

import (
	"math/bits"

	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
)

// FundingThreshold is the cumulative contribution, in wei, that makes a
// registered airline funded (10 ether).
const FundingThreshold uint64 = 10_000_000_000_000_000_000

// AccumulateFunding adds amount to current, rejecting zero contributions and
// sums that do not fit the accumulator.
func AccumulateFunding(current uint64, amount uint64) (uint64, error) {
	if amount == 0 {
		return current, domainerrors.ErrInvalidAmount
	}
	sum, carry := bits.Add64(current, amount, 0)
	if carry != 0 {
		return current, domainerrors.ErrAmountOverflow
	}
	return sum, nil
}

// MeetsThreshold reports whether a cumulative contribution qualifies an
// airline as funded.
func MeetsThreshold(amountFunded uint64) bool {
	return amountFunded >= FundingThreshold
}
