package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterAirlineRequest struct {
	InitiatorID string `json:"initiator_id"`
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
}

type RegisterAirlineResponse struct {
	CandidateID string `json:"candidate_id"`
	Admitted    bool   `json:"admitted"`
	VoteCount   uint64 `json:"vote_count"`
}

// FundAirlineRequest carries wei as a decimal string so the full uint64 range
// survives JSON number handling.
type FundAirlineRequest struct {
	AmountWei string `json:"amount_wei"`
}

type FundAirlineResponse struct {
	AirlineID       string `json:"airline_id"`
	IsFunded        bool   `json:"is_funded"`
	AmountFundedWei string `json:"amount_funded_wei"`
	ContributedWei  string `json:"contributed_wei"`
}

type AirlineResponse struct {
	AirlineID       string `json:"airline_id"`
	Name            string `json:"name"`
	Stage           string `json:"stage"`
	IsRegistered    bool   `json:"is_registered"`
	IsFunded        bool   `json:"is_funded"`
	AmountFundedWei string `json:"amount_funded_wei"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type RegistrationStatusResponse struct {
	AirlineID    string `json:"airline_id"`
	Registered   bool   `json:"registered"`
	AirlineCount uint64 `json:"airline_count"`
}

type FundingStatusResponse struct {
	AirlineID   string `json:"airline_id"`
	Funded      bool   `json:"funded"`
	FundedCount uint64 `json:"funded_count"`
}

type PendingCandidateItem struct {
	CandidateID   string   `json:"candidate_id"`
	Name          string   `json:"name"`
	VoteCount     uint64   `json:"vote_count"`
	VotesRequired uint64   `json:"votes_required"`
	Voters        []string `json:"voters"`
}

type PendingCandidatesResponse struct {
	Items []PendingCandidateItem `json:"items"`
}

type VoteCountResponse struct {
	CandidateID   string `json:"candidate_id"`
	VoteCount     uint64 `json:"vote_count"`
	VotesRequired uint64 `json:"votes_required"`
}

type HasVotedResponse struct {
	CandidateID string `json:"candidate_id"`
	VoterID     string `json:"voter_id"`
	HasVoted    bool   `json:"has_voted"`
}

type LedgerSummaryResponse struct {
	Operational         bool   `json:"operational"`
	NumAirlines         uint64 `json:"num_airlines"`
	NumFundedAirlines   uint64 `json:"num_funded_airlines"`
	AdmissionMode       string `json:"admission_mode"`
	VotesRequired       uint64 `json:"votes_required"`
	FundingThresholdWei string `json:"funding_threshold_wei"`
}

type OperationalStatusResponse struct {
	Operational bool `json:"operational"`
}

type SetOperationalRequest struct {
	Operational *bool `json:"operational"`
}

type CallerAuthorizationResponse struct {
	CallerID   string `json:"caller_id"`
	Authorized bool   `json:"authorized"`
}
