package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/application/commands"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/queries"
	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	httptransport "flightsurety/contexts/insurance-pool/admission-ledger/transport/http"
)

// Handler adapts transport DTOs to the ledger use cases.
type Handler struct {
	Ledger commands.LedgerUseCase
	Status queries.StatusUseCase
	Logger *slog.Logger
}

func (h Handler) RegisterAirlineHandler(
	ctx context.Context,
	callerID string,
	req httptransport.RegisterAirlineRequest,
) (httptransport.RegisterAirlineResponse, error) {
	outcome, err := h.Ledger.RegisterAirline(ctx, commands.RegisterCommand{
		CallerID:    callerID,
		InitiatorID: req.InitiatorID,
		CandidateID: req.CandidateID,
		Name:        req.Name,
	})
	if err != nil {
		return httptransport.RegisterAirlineResponse{}, err
	}
	return httptransport.RegisterAirlineResponse{
		CandidateID: strings.TrimSpace(req.CandidateID),
		Admitted:    outcome.Admitted,
		VoteCount:   outcome.VoteCount,
	}, nil
}

func (h Handler) FundAirlineHandler(
	ctx context.Context,
	callerID string,
	airlineID string,
	req httptransport.FundAirlineRequest,
) (httptransport.FundAirlineResponse, error) {
	amount, err := ParseWei(req.AmountWei)
	if err != nil {
		return httptransport.FundAirlineResponse{}, err
	}
	outcome, err := h.Ledger.Fund(ctx, commands.FundCommand{
		CallerID:  callerID,
		AirlineID: airlineID,
		AmountWei: amount,
	})
	if err != nil {
		return httptransport.FundAirlineResponse{}, err
	}
	return httptransport.FundAirlineResponse{
		AirlineID:       strings.TrimSpace(airlineID),
		IsFunded:        outcome.IsFunded,
		AmountFundedWei: formatWei(outcome.AmountFunded),
		ContributedWei:  formatWei(outcome.Contributed),
	}, nil
}

func (h Handler) GetAirlineHandler(ctx context.Context, callerID string, airlineID string) (httptransport.AirlineResponse, error) {
	participant, err := h.Status.GetParticipant(ctx, callerID, airlineID)
	if err != nil {
		return httptransport.AirlineResponse{}, err
	}
	return mapAirline(participant), nil
}

func (h Handler) RegistrationStatusHandler(ctx context.Context, callerID string, airlineID string) (httptransport.RegistrationStatusResponse, error) {
	registered, count, err := h.Status.IsRegistered(ctx, callerID, airlineID)
	if err != nil {
		return httptransport.RegistrationStatusResponse{}, err
	}
	return httptransport.RegistrationStatusResponse{
		AirlineID:    strings.TrimSpace(airlineID),
		Registered:   registered,
		AirlineCount: count,
	}, nil
}

func (h Handler) FundingStatusHandler(ctx context.Context, callerID string, airlineID string) (httptransport.FundingStatusResponse, error) {
	funded, count, err := h.Status.IsFunded(ctx, callerID, airlineID)
	if err != nil {
		return httptransport.FundingStatusResponse{}, err
	}
	return httptransport.FundingStatusResponse{
		AirlineID:   strings.TrimSpace(airlineID),
		Funded:      funded,
		FundedCount: count,
	}, nil
}

func (h Handler) PendingCandidatesHandler(ctx context.Context, callerID string) (httptransport.PendingCandidatesResponse, error) {
	candidates, err := h.Status.ListPendingCandidates(ctx, callerID)
	if err != nil {
		return httptransport.PendingCandidatesResponse{}, err
	}
	items := make([]httptransport.PendingCandidateItem, 0, len(candidates))
	for _, candidate := range candidates {
		voters := candidate.Voters
		if voters == nil {
			voters = []string{}
		}
		items = append(items, httptransport.PendingCandidateItem{
			CandidateID:   candidate.Identity,
			Name:          candidate.Name,
			VoteCount:     candidate.VoteCount,
			VotesRequired: candidate.VotesRequired,
			Voters:        voters,
		})
	}
	return httptransport.PendingCandidatesResponse{Items: items}, nil
}

func (h Handler) VoteCountHandler(ctx context.Context, callerID string, candidateID string) (httptransport.VoteCountResponse, error) {
	count, required, err := h.Status.VoteCount(ctx, callerID, candidateID)
	if err != nil {
		return httptransport.VoteCountResponse{}, err
	}
	return httptransport.VoteCountResponse{
		CandidateID:   strings.TrimSpace(candidateID),
		VoteCount:     count,
		VotesRequired: required,
	}, nil
}

func (h Handler) HasVotedHandler(ctx context.Context, callerID string, candidateID string, voterID string) (httptransport.HasVotedResponse, error) {
	voted, err := h.Status.HasVoted(ctx, callerID, voterID, candidateID)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{
		CandidateID: strings.TrimSpace(candidateID),
		VoterID:     strings.TrimSpace(voterID),
		HasVoted:    voted,
	}, nil
}

func (h Handler) LedgerSummaryHandler(ctx context.Context, callerID string) (httptransport.LedgerSummaryResponse, error) {
	summary, err := h.Status.Summary(ctx, callerID)
	if err != nil {
		return httptransport.LedgerSummaryResponse{}, err
	}
	return httptransport.LedgerSummaryResponse{
		Operational:         summary.Operational,
		NumAirlines:         summary.NumAirlines,
		NumFundedAirlines:   summary.NumFundedAirlines,
		AdmissionMode:       summary.AdmissionMode,
		VotesRequired:       summary.VotesRequired,
		FundingThresholdWei: formatWei(summary.FundingThreshold),
	}, nil
}

func (h Handler) OperationalStatusHandler(ctx context.Context) (httptransport.OperationalStatusResponse, error) {
	operational, err := h.Status.IsOperational(ctx)
	if err != nil {
		return httptransport.OperationalStatusResponse{}, err
	}
	return httptransport.OperationalStatusResponse{Operational: operational}, nil
}

func (h Handler) SetOperationalHandler(
	ctx context.Context,
	ownerID string,
	req httptransport.SetOperationalRequest,
) (httptransport.OperationalStatusResponse, error) {
	if req.Operational == nil {
		return httptransport.OperationalStatusResponse{}, ErrMissingOperational
	}
	if err := h.Ledger.SetOperational(ctx, commands.SetOperationalCommand{
		OwnerID:     ownerID,
		Operational: *req.Operational,
	}); err != nil {
		return httptransport.OperationalStatusResponse{}, err
	}
	return httptransport.OperationalStatusResponse{Operational: *req.Operational}, nil
}

func (h Handler) AuthorizeCallerHandler(ctx context.Context, ownerID string, callerID string) (httptransport.CallerAuthorizationResponse, error) {
	if err := h.Ledger.AuthorizeCaller(ctx, commands.CallerCommand{OwnerID: ownerID, CallerID: callerID}); err != nil {
		return httptransport.CallerAuthorizationResponse{}, err
	}
	return httptransport.CallerAuthorizationResponse{CallerID: strings.TrimSpace(callerID), Authorized: true}, nil
}

func (h Handler) DeauthorizeCallerHandler(ctx context.Context, ownerID string, callerID string) (httptransport.CallerAuthorizationResponse, error) {
	if err := h.Ledger.DeauthorizeCaller(ctx, commands.CallerCommand{OwnerID: ownerID, CallerID: callerID}); err != nil {
		return httptransport.CallerAuthorizationResponse{}, err
	}
	return httptransport.CallerAuthorizationResponse{CallerID: strings.TrimSpace(callerID), Authorized: false}, nil
}

// ParseWei accepts a base-10 unsigned amount. Anything else, including
// values beyond uint64, is an invalid amount.
func ParseWei(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, domainerrors.ErrInvalidAmount
	}
	amount, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, domainerrors.ErrInvalidAmount
	}
	return amount, nil
}

func formatWei(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

func mapAirline(participant entities.Participant) httptransport.AirlineResponse {
	return httptransport.AirlineResponse{
		AirlineID:       participant.Identity,
		Name:            participant.Name,
		Stage:           string(participant.Stage()),
		IsRegistered:    participant.IsRegistered,
		IsFunded:        participant.IsFunded,
		AmountFundedWei: formatWei(participant.AmountFunded),
		CreatedAt:       participant.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       participant.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
