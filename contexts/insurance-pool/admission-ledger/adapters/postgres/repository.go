package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"flightsurety/contexts/insurance-pool/admission-ledger/domain/entities"
	domainerrors "flightsurety/contexts/insurance-pool/admission-ledger/domain/errors"
	"flightsurety/contexts/insurance-pool/admission-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository stores the ledger through gorm. Postgres is the production
// dialect; the same models run on sqlite.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
	mu     sync.RWMutex
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(MigrateModels...); err != nil {
		return r.logError("admission_repo_migrate_failed", err)
	}
	return nil
}

// EnsureLedger creates the singleton ledger row on first start and grants the
// initial orchestrators. An existing row must carry the same owner.
func (r *Repository) EnsureLedger(ctx context.Context, owner string, authorizedCallers []string, now time.Time) error {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return domainerrors.ErrInvalidIdentity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		row := ledgerModelFromEntity(entities.NewLedgerState(owner, now))
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return r.logError("admission_repo_ensure_ledger_failed", err, "owner", owner)
		}
		var existing ledgerStateModel
		if err := db.Where("id = ?", ledgerRowID).First(&existing).Error; err != nil {
			return r.logError("admission_repo_ensure_ledger_load_failed", err)
		}
		if existing.Owner != owner {
			return fmt.Errorf("ledger owned by %q, configured owner %q: %w", existing.Owner, owner, domainerrors.ErrConflict)
		}
		for _, caller := range authorizedCallers {
			caller = strings.TrimSpace(caller)
			if caller == "" {
				continue
			}
			grant := callerModel{CallerID: caller, AuthorizedAt: now.UTC()}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "caller_id"}},
				DoNothing: true,
			}).Create(&grant).Error; err != nil {
				return r.logError("admission_repo_ensure_caller_failed", err, "caller_id", caller)
			}
		}
		return nil
	})
}

// Atomic runs fn in one database transaction. The process-local mutex orders
// writers inside this process. On postgres the ledger singleton is read FOR
// UPDATE, which orders writers across processes sharing one database.
func (r *Repository) Atomic(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, &gormTx{db: db, repo: r, forUpdate: db.Dialector.Name() == "postgres"})
	})
	if isSerializationFailure(err) || isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", domainerrors.ErrConflict, err)
	}
	return err
}

func (r *Repository) Read(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, &gormTx{db: db, repo: r, readOnly: true})
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("admission_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	publishedAt = publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &publishedAt,
		})
	if result.Error != nil {
		return r.logError("admission_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "insurance-pool/admission-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("admission ledger repository operation failed", fields...)
	return err
}

type gormTx struct {
	db        *gorm.DB
	repo      *Repository
	forUpdate bool
	readOnly  bool
}

var errReadOnly = errors.New("postgres adapter: write attempted inside Read")

func (t *gormTx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func (t *gormTx) LoadLedger(_ context.Context) (entities.LedgerState, error) {
	query := t.db
	if t.forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row ledgerStateModel
	if err := query.Where("id = ?", ledgerRowID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.LedgerState{}, fmt.Errorf("ledger state row missing: %w", domainerrors.ErrNotFound)
		}
		return entities.LedgerState{}, t.repo.logError("admission_repo_load_ledger_failed", err)
	}
	return row.toEntity(), nil
}

func (t *gormTx) SaveLedger(_ context.Context, state entities.LedgerState) error {
	if err := t.writable(); err != nil {
		return err
	}
	row := ledgerModelFromEntity(state)
	if err := t.db.Save(&row).Error; err != nil {
		return t.repo.logError("admission_repo_save_ledger_failed", err)
	}
	return nil
}

func (t *gormTx) GetParticipant(_ context.Context, identity string) (entities.Participant, bool, error) {
	var row airlineModel
	err := t.db.Where("identity = ?", strings.TrimSpace(identity)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Participant{}, false, nil
		}
		return entities.Participant{}, false, t.repo.logError("admission_repo_get_airline_failed", err,
			"airline_id", strings.TrimSpace(identity),
		)
	}
	participant, err := row.toEntity()
	if err != nil {
		return entities.Participant{}, false, t.repo.logError("admission_repo_decode_airline_failed", err,
			"airline_id", row.Identity,
		)
	}
	return participant, true, nil
}

func (t *gormTx) SaveParticipant(_ context.Context, participant entities.Participant) error {
	if err := t.writable(); err != nil {
		return err
	}
	row := airlineModelFromEntity(participant)
	create := t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identity"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":              row.Name,
			"is_registered":     row.IsRegistered,
			"is_funded":         row.IsFunded,
			"amount_funded_wei": row.AmountFundedWei,
			"updated_at":        row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return t.repo.logError("admission_repo_save_airline_failed", create.Error,
			"airline_id", row.Identity,
		)
	}
	return nil
}

func (t *gormTx) ListParticipants(_ context.Context) ([]entities.Participant, error) {
	var rows []airlineModel
	if err := t.db.Order("identity ASC").Find(&rows).Error; err != nil {
		return nil, t.repo.logError("admission_repo_list_airlines_failed", err)
	}
	items := make([]entities.Participant, 0, len(rows))
	for _, row := range rows {
		participant, err := row.toEntity()
		if err != nil {
			return nil, t.repo.logError("admission_repo_decode_airline_failed", err, "airline_id", row.Identity)
		}
		items = append(items, participant)
	}
	return items, nil
}

func (t *gormTx) GetVoteRecord(_ context.Context, candidate string) (entities.VoteRecord, bool, error) {
	candidate = strings.TrimSpace(candidate)
	var header voteRecordModel
	err := t.db.Where("candidate = ?", candidate).First(&header).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoteRecord{}, false, nil
		}
		return entities.VoteRecord{}, false, t.repo.logError("admission_repo_get_vote_record_failed", err,
			"candidate_id", candidate,
		)
	}
	var votes []voteModel
	if err := t.db.Where("candidate = ?", candidate).Order("position ASC").Find(&votes).Error; err != nil {
		return entities.VoteRecord{}, false, t.repo.logError("admission_repo_list_votes_failed", err,
			"candidate_id", candidate,
		)
	}
	return header.toEntity(votes), true, nil
}

// SaveVoteRecord appends voter rows missing from storage. Voter sets only
// grow while a record is live.
func (t *gormTx) SaveVoteRecord(_ context.Context, record entities.VoteRecord) error {
	if err := t.writable(); err != nil {
		return err
	}
	header := voteRecordModel{
		Candidate: record.Candidate,
		CreatedAt: record.CreatedAt.UTC(),
		UpdatedAt: record.UpdatedAt.UTC(),
	}
	if err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate"}},
		DoUpdates: clause.Assignments(map[string]any{"updated_at": header.UpdatedAt}),
	}).Create(&header).Error; err != nil {
		return t.repo.logError("admission_repo_save_vote_record_failed", err, "candidate_id", record.Candidate)
	}
	for position, voter := range record.Voters {
		row := voteModel{
			Candidate: record.Candidate,
			Voter:     voter,
			Position:  position,
			CastAt:    record.UpdatedAt.UTC(),
		}
		if err := t.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "candidate"}, {Name: "voter"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return t.repo.logError("admission_repo_save_vote_failed", err,
				"candidate_id", record.Candidate,
				"voter_id", voter,
			)
		}
	}
	return nil
}

func (t *gormTx) DeleteVoteRecord(_ context.Context, candidate string) error {
	if err := t.writable(); err != nil {
		return err
	}
	candidate = strings.TrimSpace(candidate)
	if err := t.db.Where("candidate = ?", candidate).Delete(&voteModel{}).Error; err != nil {
		return t.repo.logError("admission_repo_delete_votes_failed", err, "candidate_id", candidate)
	}
	if err := t.db.Where("candidate = ?", candidate).Delete(&voteRecordModel{}).Error; err != nil {
		return t.repo.logError("admission_repo_delete_vote_record_failed", err, "candidate_id", candidate)
	}
	return nil
}

func (t *gormTx) ListVoteRecords(_ context.Context) ([]entities.VoteRecord, error) {
	var headers []voteRecordModel
	if err := t.db.Order("candidate ASC").Find(&headers).Error; err != nil {
		return nil, t.repo.logError("admission_repo_list_vote_records_failed", err)
	}
	var votes []voteModel
	if err := t.db.Order("candidate ASC").Order("position ASC").Find(&votes).Error; err != nil {
		return nil, t.repo.logError("admission_repo_list_all_votes_failed", err)
	}
	byCandidate := make(map[string][]voteModel, len(headers))
	for _, vote := range votes {
		byCandidate[vote.Candidate] = append(byCandidate[vote.Candidate], vote)
	}
	items := make([]entities.VoteRecord, 0, len(headers))
	for _, header := range headers {
		items = append(items, header.toEntity(byCandidate[header.Candidate]))
	}
	return items, nil
}

func (t *gormTx) IsCallerAuthorized(_ context.Context, callerID string) (bool, error) {
	var count int64
	if err := t.db.Model(&callerModel{}).
		Where("caller_id = ?", strings.TrimSpace(callerID)).
		Count(&count).Error; err != nil {
		return false, t.repo.logError("admission_repo_check_caller_failed", err,
			"caller_id", strings.TrimSpace(callerID),
		)
	}
	return count > 0, nil
}

func (t *gormTx) SetCallerAuthorized(_ context.Context, callerID string, authorized bool, changedAt time.Time) error {
	if err := t.writable(); err != nil {
		return err
	}
	callerID = strings.TrimSpace(callerID)
	if !authorized {
		if err := t.db.Where("caller_id = ?", callerID).Delete(&callerModel{}).Error; err != nil {
			return t.repo.logError("admission_repo_deauthorize_caller_failed", err, "caller_id", callerID)
		}
		return nil
	}
	row := callerModel{CallerID: callerID, AuthorizedAt: changedAt.UTC()}
	if err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "caller_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return t.repo.logError("admission_repo_authorize_caller_failed", err, "caller_id", callerID)
	}
	return nil
}

func (t *gormTx) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	if err := t.writable(); err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return t.repo.logError("admission_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return t.repo.logError("admission_repo_append_outbox_insert_failed", err, "outbox_id", row.OutboxID)
	}
	return nil
}

func (m voteRecordModel) toEntity(votes []voteModel) entities.VoteRecord {
	record := entities.VoteRecord{
		Candidate: m.Candidate,
		Voters:    make([]string, 0, len(votes)),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	for _, vote := range votes {
		record.Voters = append(record.Voters, vote.Voter)
	}
	return record
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01")
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.Tx = (*gormTx)(nil)
