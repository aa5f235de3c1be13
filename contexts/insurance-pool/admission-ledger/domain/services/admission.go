package services

// DirectAdmissionLimit is the funded-airline count at which admission switches
// from unilateral registration to majority voting.
const DirectAdmissionLimit uint64 = 4

type AdmissionMode string

const (
	ModeDirect AdmissionMode = "direct"
	ModeVoting AdmissionMode = "voting"
)

func ModeFor(numFundedAirlines uint64) AdmissionMode {
	if numFundedAirlines < DirectAdmissionLimit {
		return ModeDirect
	}
	return ModeVoting
}

// QuorumReached reports a strict majority of funded airlines, with the
// denominator rounded down: votes > numFunded/2.
func QuorumReached(votes uint64, numFundedAirlines uint64) bool {
	return votes > numFundedAirlines/2
}

// VotesRequired is the smallest vote count that satisfies QuorumReached.
func VotesRequired(numFundedAirlines uint64) uint64 {
	if ModeFor(numFundedAirlines) == ModeDirect {
		return 0
	}
	return numFundedAirlines/2 + 1
}
