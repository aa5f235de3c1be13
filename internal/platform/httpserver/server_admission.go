package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	httpadapter "flightsurety/contexts/insurance-pool/admission-ledger/adapters/http"
	ledgererrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	ledgerhttp "flightsurety/contexts/insurance-pool/admission-ledger/transport/http"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func writeLedgerSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Status: "success", Data: data})
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrNotOperational):
		writeLedgerError(w, http.StatusServiceUnavailable, "not_operational", err.Error())
	case errors.Is(err, ledgererrors.ErrUnauthorized):
		writeLedgerError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyRegistered):
		writeLedgerError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.Is(err, ledgererrors.ErrDuplicateVote):
		writeLedgerError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadySeeded):
		writeLedgerError(w, http.StatusConflict, "already_seeded", err.Error())
	case errors.Is(err, ledgererrors.ErrConflict):
		writeLedgerError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ledgererrors.ErrNotFunded):
		writeLedgerError(w, http.StatusUnprocessableEntity, "not_funded", err.Error())
	case errors.Is(err, ledgererrors.ErrNotRegistered):
		writeLedgerError(w, http.StatusUnprocessableEntity, "not_registered", err.Error())
	case errors.Is(err, ledgererrors.ErrAmountOverflow):
		writeLedgerError(w, http.StatusUnprocessableEntity, "amount_overflow", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidName),
		errors.Is(err, ledgererrors.ErrInvalidIdentity),
		errors.Is(err, ledgererrors.ErrInvalidAmount),
		errors.Is(err, httpadapter.ErrMissingOperational):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrNotFound):
		writeLedgerError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireLedgerAuthorization(w http.ResponseWriter, r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		writeLedgerError(w, http.StatusUnauthorized, "unauthenticated", "Authorization bearer token is required")
		return false
	}
	return true
}

func requireLedgerRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeLedgerError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
		return false
	}
	return true
}

// requireCallerID resolves the orchestrator identity the ledger checks
// against its allow-list.
func requireCallerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	callerID := strings.TrimSpace(r.Header.Get("X-Caller-Id"))
	if callerID == "" {
		writeLedgerError(w, http.StatusBadRequest, "missing_caller", "X-Caller-Id header is required")
		return "", false
	}
	return callerID, true
}

func requireOwnerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := strings.TrimSpace(r.Header.Get("X-Owner-Id"))
	if ownerID == "" {
		writeLedgerError(w, http.StatusBadRequest, "missing_owner", "X-Owner-Id header is required")
		return "", false
	}
	return ownerID, true
}

func (s *Server) ledgerCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !requireLedgerAuthorization(w, r) || !requireLedgerRequestID(w, r) {
		return "", false
	}
	return requireCallerID(w, r)
}

func (s *Server) ledgerOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !requireLedgerAuthorization(w, r) || !requireLedgerRequestID(w, r) {
		return "", false
	}
	return requireOwnerID(w, r)
}

func (s *Server) handleRegisterAirline(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.RegisterAirlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.RegisterAirlineHandler(r.Context(), callerID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	status := http.StatusAccepted
	if resp.Admitted {
		status = http.StatusCreated
	}
	writeLedgerSuccess(w, status, resp)
}

func (s *Server) handleFundAirline(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.FundAirlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.FundAirlineHandler(r.Context(), callerID, r.PathValue("airline_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleGetAirline(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetAirlineHandler(r.Context(), callerID, r.PathValue("airline_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.RegistrationStatusHandler(r.Context(), callerID, r.PathValue("airline_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleFundingStatus(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.FundingStatusHandler(r.Context(), callerID, r.PathValue("airline_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handlePendingCandidates(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.PendingCandidatesHandler(r.Context(), callerID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleVoteCount(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.VoteCountHandler(r.Context(), callerID, r.PathValue("candidate_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.HasVotedHandler(
		r.Context(),
		callerID,
		r.PathValue("candidate_id"),
		r.PathValue("voter_id"),
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerSummary(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.ledgerCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.LedgerSummaryHandler(r.Context(), callerID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

// handleOperationalStatus is public.
func (s *Server) handleOperationalStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.OperationalStatusHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleSetOperational(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ledgerOwner(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.SetOperationalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.SetOperationalHandler(r.Context(), ownerID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleAuthorizeCaller(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ledgerOwner(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.AuthorizeCallerHandler(r.Context(), ownerID, r.PathValue("caller_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}

func (s *Server) handleDeauthorizeCaller(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ledgerOwner(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.DeauthorizeCallerHandler(r.Context(), ownerID, r.PathValue("caller_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeLedgerSuccess(w, http.StatusOK, resp)
}
