package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"idverify/internal/verification/classifier"
	"idverify/internal/verification/models"
	id "idverify/pkg/domain"
	"idverify/pkg/platform/sentinel"
	txcontext "idverify/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists verification records in PostgreSQL. Rows are
// insert-only; a trigger rejects updates and deletes.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed result store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts record, joining the transaction on ctx when there is one.
func (s *PostgresStore) Append(ctx context.Context, record *models.Record) error {
	if record == nil {
		return fmt.Errorf("verification record is required")
	}
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal verification result: %w", err)
	}

	failed := make([]string, 0, len(record.Result.FailedImages))
	for _, slot := range record.Result.FailedImages {
		failed = append(failed, slot.String())
	}

	query := `
		INSERT INTO verification_results (
			id, caller_id, bucket, front_path, back_path, doc_type_key,
			accepted, doc_type_confirmed, name_matched, reason,
			failed_images, result, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(record.ID),
		uuid.UUID(record.CallerID),
		record.Bucket,
		record.FrontPath,
		record.BackPath,
		record.DocTypeKey.String(),
		record.Result.Accepted,
		record.Result.DocTypeConfirmed,
		nullableBool(record.Result.NameMatched),
		record.Result.Reason,
		pq.Array(failed),
		payload,
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("append verification %s: %w", record.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert verification result: %w", err)
	}
	return nil
}

const selectColumns = `id, caller_id, bucket, front_path, back_path, doc_type_key, result, created_at`

func (s *PostgresStore) FindByID(ctx context.Context, verificationID id.VerificationID) (*models.Record, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM verification_results WHERE id = $1`,
		uuid.UUID(verificationID),
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find verification result: %w", err)
	}
	return record, nil
}

// ListByCaller returns up to limit records for callerID, newest first.
func (s *PostgresStore) ListByCaller(ctx context.Context, callerID id.UserID, limit int) ([]*models.Record, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM verification_results
		WHERE caller_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		uuid.UUID(callerID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list verification results: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification result: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification results: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	var (
		recordID  uuid.UUID
		callerID  uuid.UUID
		docType   string
		payload   []byte
		createdAt time.Time
		record    models.Record
	)
	if err := row.Scan(&recordID, &callerID, &record.Bucket, &record.FrontPath, &record.BackPath, &docType, &payload, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &record.Result); err != nil {
		return nil, fmt.Errorf("decode verification result: %w", err)
	}
	record.ID = id.VerificationID(recordID)
	record.CallerID = id.UserID(callerID)
	record.DocTypeKey = classifier.DocumentTypeKey(docType)
	record.CreatedAt = createdAt
	return &record, nil
}

func nullableBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
