package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	admissionledger "flightsurety/contexts/insurance-pool/admission-ledger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "flightsurety/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	ledger   admissionledger.Module
	gatherer prometheus.Gatherer
}

// New registers the ledger routes. A nil gatherer leaves /metrics unmounted.
func New(
	ledger admissionledger.Module,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		ledger:   ledger,
		gatherer: gatherer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.mux.HandleFunc("POST /v1/airlines/register", s.handleRegisterAirline)
	s.mux.HandleFunc("POST /v1/airlines/{airline_id}/fund", s.handleFundAirline)
	s.mux.HandleFunc("GET /v1/airlines/{airline_id}", s.handleGetAirline)
	s.mux.HandleFunc("GET /v1/airlines/{airline_id}/registration", s.handleRegistrationStatus)
	s.mux.HandleFunc("GET /v1/airlines/{airline_id}/funding", s.handleFundingStatus)

	s.mux.HandleFunc("GET /v1/candidates", s.handlePendingCandidates)
	s.mux.HandleFunc("GET /v1/candidates/{candidate_id}/votes", s.handleVoteCount)
	s.mux.HandleFunc("GET /v1/candidates/{candidate_id}/votes/{voter_id}", s.handleHasVoted)

	s.mux.HandleFunc("GET /v1/ledger/summary", s.handleLedgerSummary)
	s.mux.HandleFunc("GET /v1/ledger/operational", s.handleOperationalStatus)

	s.mux.HandleFunc("PUT /v1/admin/ledger/operational", s.handleSetOperational)
	s.mux.HandleFunc("POST /v1/admin/callers/{caller_id}/authorize", s.handleAuthorizeCaller)
	s.mux.HandleFunc("POST /v1/admin/callers/{caller_id}/deauthorize", s.handleDeauthorizeCaller)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
