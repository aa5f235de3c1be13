package services

import (
	"errors"
	"math"
	"testing"

	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
)

func TestAccumulateFundingRejectsZero(t *testing.T) {
	_, err := AccumulateFunding(5, 0)
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAccumulateFundingDetectsOverflow(t *testing.T) {
	current, err := AccumulateFunding(math.MaxUint64-1, 2)
	if !errors.Is(err, domainerrors.ErrAmountOverflow) {
		t.Fatalf("expected ErrAmountOverflow, got %v", err)
	}
	if current != math.MaxUint64-1 {
		t.Fatalf("accumulator must be unchanged on overflow, got %d", current)
	}

	sum, err := AccumulateFunding(math.MaxUint64-1, 1)
	if err != nil || sum != math.MaxUint64 {
		t.Fatalf("expected exact max, got %d err=%v", sum, err)
	}
}

func TestMeetsThresholdAtExactlyTenEther(t *testing.T) {
	if MeetsThreshold(FundingThreshold - 1) {
		t.Fatalf("one wei below the threshold must not fund")
	}
	if !MeetsThreshold(FundingThreshold) {
		t.Fatalf("exactly the threshold must fund")
	}
}

func TestNormalizeIdentityTrimsAndRejectsBlank(t *testing.T) {
	identity, err := NormalizeIdentity("  0xA1  ")
	if err != nil || identity != "0xA1" {
		t.Fatalf("expected trimmed identity, got %q err=%v", identity, err)
	}
	if _, err := NormalizeIdentity("   "); !errors.Is(err, domainerrors.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if _, err := NormalizeName(""); !errors.Is(err, domainerrors.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}
