package postgresadapter

import (
	"fmt"
	"strconv"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
)

const ledgerRowID = 1

type ledgerStateModel struct {
	ID                int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Owner             string    `gorm:"column:owner"`
	Operational       bool      `gorm:"column:operational"`
	Seeded            bool      `gorm:"column:seeded"`
	SeedAirline       string    `gorm:"column:seed_airline"`
	NumAirlines       int64     `gorm:"column:num_airlines"`
	NumFundedAirlines int64     `gorm:"column:num_funded_airlines"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (ledgerStateModel) TableName() string {
	return "admission_ledger_state"
}

func ledgerModelFromEntity(state entities.LedgerState) ledgerStateModel {
	return ledgerStateModel{
		ID:                ledgerRowID,
		Owner:             state.Owner,
		Operational:       state.Operational,
		Seeded:            state.Seeded,
		SeedAirline:       state.SeedAirline,
		NumAirlines:       int64(state.NumAirlines),
		NumFundedAirlines: int64(state.NumFundedAirlines),
		UpdatedAt:         state.UpdatedAt.UTC(),
	}
}

func (m ledgerStateModel) toEntity() entities.LedgerState {
	return entities.LedgerState{
		Owner:             m.Owner,
		Operational:       m.Operational,
		Seeded:            m.Seeded,
		SeedAirline:       m.SeedAirline,
		NumAirlines:       uint64(m.NumAirlines),
		NumFundedAirlines: uint64(m.NumFundedAirlines),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

// airlineModel keeps the wei accumulator as a decimal string: 10 ether does
// not fit a signed bigint.
type airlineModel struct {
	Identity        string    `gorm:"column:identity;primaryKey"`
	Name            string    `gorm:"column:name"`
	IsRegistered    bool      `gorm:"column:is_registered"`
	IsFunded        bool      `gorm:"column:is_funded"`
	AmountFundedWei string    `gorm:"column:amount_funded_wei;type:varchar(20)"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (airlineModel) TableName() string {
	return "admission_airlines"
}

func airlineModelFromEntity(participant entities.Participant) airlineModel {
	return airlineModel{
		Identity:        participant.Identity,
		Name:            participant.Name,
		IsRegistered:    participant.IsRegistered,
		IsFunded:        participant.IsFunded,
		AmountFundedWei: strconv.FormatUint(participant.AmountFunded, 10),
		CreatedAt:       participant.CreatedAt.UTC(),
		UpdatedAt:       participant.UpdatedAt.UTC(),
	}
}

func (m airlineModel) toEntity() (entities.Participant, error) {
	amount := uint64(0)
	if m.AmountFundedWei != "" {
		parsed, err := strconv.ParseUint(m.AmountFundedWei, 10, 64)
		if err != nil {
			return entities.Participant{}, fmt.Errorf("airline %s amount_funded_wei %q: %w", m.Identity, m.AmountFundedWei, err)
		}
		amount = parsed
	}
	return entities.Participant{
		Identity:     m.Identity,
		Name:         m.Name,
		IsRegistered: m.IsRegistered,
		IsFunded:     m.IsFunded,
		AmountFunded: amount,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

type voteRecordModel struct {
	Candidate string    `gorm:"column:candidate;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (voteRecordModel) TableName() string {
	return "admission_vote_records"
}

// voteModel is one voter row; the composite key makes a duplicate vote
// impossible at the storage layer as well.
type voteModel struct {
	Candidate string    `gorm:"column:candidate;primaryKey"`
	Voter     string    `gorm:"column:voter;primaryKey"`
	Position  int       `gorm:"column:position"`
	CastAt    time.Time `gorm:"column:cast_at"`
}

func (voteModel) TableName() string {
	return "admission_votes"
}

type callerModel struct {
	CallerID     string    `gorm:"column:caller_id;primaryKey"`
	AuthorizedAt time.Time `gorm:"column:authorized_at"`
}

func (callerModel) TableName() string {
	return "admission_authorized_callers"
}

type outboxModel struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	OutboxID     string     `gorm:"column:outbox_id;uniqueIndex"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "admission_outbox"
}

// MigrateModels lists every table owned by the admission ledger.
var MigrateModels = []any{
	&ledgerStateModel{},
	&airlineModel{},
	&voteRecordModel{},
	&voteModel{},
	&callerModel{},
	&outboxModel{},
}
