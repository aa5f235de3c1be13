package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLedgerContextRespectsLayerBoundaries(t *testing.T) {
	violations := collectViolations(filepath.Join("..", "contexts"))
	for _, v := range violations {
		t.Errorf("%s:%d imports %q (%s)", v.File, v.Line, v.Import, v.Rule)
	}
}

func TestDomainImportingAdapterIsReported(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "insurance-pool", "admission-ledger", "domain", "services")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	source := `package services

import _ "flightsurety/contexts/insurance-pool/admission-ledger/adapters/memory"
`
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	violations := collectViolations(root)
	if len(violations) != 2 {
		t.Fatalf("expected adapter and allowlist violations, got %+v", violations)
	}
}

func TestApplicationMayImportContracts(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "insurance-pool", "admission-ledger", "application", "commands")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	source := `package commands

import (
	"context"

	_ "flightsurety/contracts/gen/events/v1"
	_ "flightsurety/contexts/insurance-pool/admission-ledger/ports"
)

var _ context.Context
`
	if err := os.WriteFile(filepath.Join(dir, "ok.go"), []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if violations := collectViolations(root); len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestCrossContextImportIsReported(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "insurance-pool", "admission-ledger", "adapters", "http")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	source := `package httpadapter

import _ "flightsurety/contexts/insurance-pool/claims-desk/ports"
`
	if err := os.WriteFile(filepath.Join(dir, "cross.go"), []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	violations := collectViolations(root)
	if len(violations) != 1 || violations[0].Rule != "cross-module imports are forbidden" {
		t.Fatalf("expected one cross-module violation, got %+v", violations)
	}
}
