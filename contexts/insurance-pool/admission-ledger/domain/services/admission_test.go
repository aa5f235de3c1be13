package services

import "testing"

func TestModeSwitchesAtDirectAdmissionLimit(t *testing.T) {
	for funded, want := range map[uint64]AdmissionMode{
		0: ModeDirect,
		1: ModeDirect,
		3: ModeDirect,
		4: ModeVoting,
		9: ModeVoting,
	} {
		if got := ModeFor(funded); got != want {
			t.Fatalf("ModeFor(%d) = %s, want %s", funded, got, want)
		}
	}
}

func TestQuorumIsStrictMajorityOfFunded(t *testing.T) {
	cases := []struct {
		funded   uint64
		required uint64
	}{
		{funded: 4, required: 3},
		{funded: 5, required: 3},
		{funded: 6, required: 4},
		{funded: 7, required: 4},
	}
	for _, tc := range cases {
		if got := VotesRequired(tc.funded); got != tc.required {
			t.Fatalf("VotesRequired(%d) = %d, want %d", tc.funded, got, tc.required)
		}
		if QuorumReached(tc.required-1, tc.funded) {
			t.Fatalf("%d votes of %d funded must not reach quorum", tc.required-1, tc.funded)
		}
		if !QuorumReached(tc.required, tc.funded) {
			t.Fatalf("%d votes of %d funded must reach quorum", tc.required, tc.funded)
		}
	}
}

func TestVotesRequiredIsZeroInDirectMode(t *testing.T) {
	if got := VotesRequired(3); got != 0 {
		t.Fatalf("expected 0 votes required below the limit, got %d", got)
	}
}
