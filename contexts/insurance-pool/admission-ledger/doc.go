// Package admissionledger implements the airline admission ledger inside the
// insurance-pool context.
//
// The module owns the participant registry: direct admission while fewer than
// four airlines are funded, funded-airline majority voting afterwards, and
// the funding accumulator that marks an airline funded at the threshold.
// Every state change is a single serialised unit of work that also writes the
// outbox rows relayed by the worker.
package admissionledger
