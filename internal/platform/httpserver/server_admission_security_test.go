package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	admissionledger "flightsurety/contexts/insurance-pool/admission-ledger"
	"flightsurety/contexts/insurance-pool/admission-ledger/application/commands"

	"github.com/prometheus/client_golang/prometheus"
)

const tenEther = "10000000000000000000"

func newTestServer() *Server {
	module := admissionledger.NewInMemoryModule("owner", []string{"app"}, slog.Default())
	if _, err := module.Handler.Ledger.RegisterFirst(context.Background(), commands.SeedCommand{
		OwnerID:   "owner",
		AirlineID: "A0",
		Name:      "Seed Air",
	}); err != nil {
		panic(err)
	}
	return New(module, nil, slog.Default(), ":0")
}

func ledgerRequest(method string, target string, body string, requestID string) *http.Request {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Request-Id", requestID)
	return req
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestLedgerRegisterRequiresAuthorization(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/airlines/register", strings.NewReader(`{}`))
	req.Header.Set("X-Request-Id", "req-ledger-1")
	req.Header.Set("X-Caller-Id", "app")

	rr := serve(server, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerRegisterRequiresRequestID(t *testing.T) {
	server := newTestServer()
	req := ledgerRequest(http.MethodPost, "/v1/airlines/register", `{}`, "")
	req.Header.Set("X-Caller-Id", "app")

	rr := serve(server, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerRegisterRequiresCallerID(t *testing.T) {
	server := newTestServer()
	rr := serve(server, ledgerRequest(http.MethodPost, "/v1/airlines/register", `{}`, "req-ledger-3"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerRejectsCallerOffAllowList(t *testing.T) {
	server := newTestServer()
	req := ledgerRequest(http.MethodGet, "/v1/ledger/summary", "", "req-ledger-4")
	req.Header.Set("X-Caller-Id", "intruder")

	rr := serve(server, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["code"] != "unauthorized" {
		t.Fatalf("expected unauthorized code, got %v", payload["code"])
	}
}

func TestLedgerRegisterDirectAndPendingStatuses(t *testing.T) {
	server := newTestServer()

	fund := ledgerRequest(http.MethodPost, "/v1/airlines/A0/fund", `{"amount_wei":"`+tenEther+`"}`, "req-ledger-5")
	fund.Header.Set("X-Caller-Id", "app")
	rr := serve(server, fund)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from fund, got %d body=%s", rr.Code, rr.Body.String())
	}
	var funded struct {
		Status string `json:"status"`
		Data   struct {
			IsFunded        bool   `json:"is_funded"`
			AmountFundedWei string `json:"amount_funded_wei"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &funded); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if funded.Status != "success" || !funded.Data.IsFunded || funded.Data.AmountFundedWei != tenEther {
		t.Fatalf("unexpected fund response: %+v", funded)
	}

	register := ledgerRequest(http.MethodPost, "/v1/airlines/register", `{"initiator_id":"A0","candidate_id":"A1","name":"One Air"}`, "req-ledger-6")
	register.Header.Set("X-Caller-Id", "app")
	rr = serve(server, register)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for direct admission, got %d body=%s", rr.Code, rr.Body.String())
	}

	repeat := ledgerRequest(http.MethodPost, "/v1/airlines/register", `{"initiator_id":"A0","candidate_id":"A1","name":"One Air"}`, "req-ledger-7")
	repeat.Header.Set("X-Caller-Id", "app")
	rr = serve(server, repeat)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for registered candidate, got %d body=%s", rr.Code, rr.Body.String())
	}

	unfunded := ledgerRequest(http.MethodPost, "/v1/airlines/register", `{"initiator_id":"A1","candidate_id":"A2","name":"Two Air"}`, "req-ledger-8")
	unfunded.Header.Set("X-Caller-Id", "app")
	rr = serve(server, unfunded)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unfunded initiator, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerRegisterReturnsAcceptedWhilePending(t *testing.T) {
	server := newTestServer()
	ctx := context.Background()
	ledger := server.ledger.Handler.Ledger
	for i, id := range []string{"A0", "A1", "A2", "A3"} {
		if i > 0 {
			if _, err := ledger.RegisterAirline(ctx, commands.RegisterCommand{CallerID: "app", InitiatorID: "A0", CandidateID: id, Name: id}); err != nil {
				t.Fatalf("register %s failed: %v", id, err)
			}
		}
		if _, err := ledger.Fund(ctx, commands.FundCommand{CallerID: "app", AirlineID: id, AmountWei: 10_000_000_000_000_000_000}); err != nil {
			t.Fatalf("fund %s failed: %v", id, err)
		}
	}

	req := ledgerRequest(http.MethodPost, "/v1/airlines/register", `{"initiator_id":"A0","candidate_id":"A4","name":"X"}`, "req-ledger-9")
	req.Header.Set("X-Caller-Id", "app")
	rr := serve(server, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for pending candidate, got %d body=%s", rr.Code, rr.Body.String())
	}

	votes := ledgerRequest(http.MethodGet, "/v1/candidates/A4/votes", "", "req-ledger-10")
	votes.Header.Set("X-Caller-Id", "app")
	rr = serve(server, votes)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from vote count, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"vote_count":1`) {
		t.Fatalf("expected one vote, got %s", rr.Body.String())
	}
}

func TestLedgerFundRejectsMalformedAmount(t *testing.T) {
	server := newTestServer()
	for _, amount := range []string{`"abc"`, `"-1"`, `"18446744073709551616"`, `""`} {
		req := ledgerRequest(http.MethodPost, "/v1/airlines/A0/fund", `{"amount_wei":`+amount+`}`, "req-ledger-11")
		req.Header.Set("X-Caller-Id", "app")
		rr := serve(server, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount %s: expected 400, got %d body=%s", amount, rr.Code, rr.Body.String())
		}
	}
}

func TestLedgerOperationalStatusIsPublic(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/ledger/operational", nil)

	rr := serve(server, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"operational":true`) {
		t.Fatalf("expected operational true, got %s", rr.Body.String())
	}
}

func TestLedgerAdminRoutesRequireOwner(t *testing.T) {
	server := newTestServer()

	req := ledgerRequest(http.MethodPut, "/v1/admin/ledger/operational", `{"operational":false}`, "req-ledger-12")
	rr := serve(server, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without owner header, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = ledgerRequest(http.MethodPut, "/v1/admin/ledger/operational", `{"operational":false}`, "req-ledger-13")
	req.Header.Set("X-Owner-Id", "app")
	rr = serve(server, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = ledgerRequest(http.MethodPut, "/v1/admin/ledger/operational", `{}`, "req-ledger-14")
	req.Header.Set("X-Owner-Id", "owner")
	rr = serve(server, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without operational field, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = ledgerRequest(http.MethodPut, "/v1/admin/ledger/operational", `{"operational":false}`, "req-ledger-15")
	req.Header.Set("X-Owner-Id", "owner")
	rr = serve(server, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from owner pause, got %d body=%s", rr.Code, rr.Body.String())
	}

	fund := ledgerRequest(http.MethodPost, "/v1/airlines/A0/fund", `{"amount_wei":"1"}`, "req-ledger-16")
	fund.Header.Set("X-Caller-Id", "app")
	rr = serve(server, fund)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while paused, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLedgerAuthorizeCallerGrantsAccess(t *testing.T) {
	server := newTestServer()

	req := ledgerRequest(http.MethodPost, "/v1/admin/callers/ops/authorize", "", "req-ledger-17")
	req.Header.Set("X-Owner-Id", "owner")
	rr := serve(server, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	summary := ledgerRequest(http.MethodGet, "/v1/ledger/summary", "", "req-ledger-18")
	summary.Header.Set("X-Caller-Id", "ops")
	rr = serve(server, summary)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for newly authorized caller, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"admission_mode":"direct"`) {
		t.Fatalf("expected direct mode summary, got %s", rr.Body.String())
	}
}

func TestLedgerGetUnknownAirline(t *testing.T) {
	server := newTestServer()
	req := ledgerRequest(http.MethodGet, "/v1/airlines/nobody", "", "req-ledger-19")
	req.Header.Set("X-Caller-Id", "app")

	rr := serve(server, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMetricsRouteServesRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "flightsurety_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	module := admissionledger.NewInMemoryModule("owner", []string{"app"}, slog.Default())
	server := New(module, registry, slog.Default(), ":0")
	rr := serve(server, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "flightsurety_test_total 1") {
		t.Fatalf("expected test counter in scrape, got %s", rr.Body.String())
	}

	rr = serve(newTestServer(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a gatherer, got %d", rr.Code)
	}
}
