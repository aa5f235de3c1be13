package application

import "log/slog"

// ModuleName is the value of the "module" log attribute for the ledger.
const ModuleName = "insurance-pool/admission-ledger"

// ResolveLogger falls back to the process default so use cases built without
// a logger still log.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
