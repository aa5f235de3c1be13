package entities

import "time"

// Stage is the externally visible lifecycle position of an airline.
type Stage string

const (
	StageUnknown    Stage = "unknown"
	StagePending    Stage = "pending"
	StageRegistered Stage = "registered"
	StageFunded     Stage = "funded"
)

// Participant is the registry row for one airline identity. Rows are never
// deleted; IsFunded and AmountFunded only move forward.
type Participant struct {
	Identity     string
	Name         string
	IsRegistered bool
	IsFunded     bool
	AmountFunded uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewParticipant returns the creation state shared by every admission path.
func NewParticipant(identity string, name string, now time.Time) Participant {
	return Participant{
		Identity:  identity,
		Name:      name,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (p Participant) Stage() Stage {
	switch {
	case p.IsFunded:
		return StageFunded
	case p.IsRegistered:
		return StageRegistered
	case p.Identity != "":
		return StagePending
	default:
		return StageUnknown
	}
}
