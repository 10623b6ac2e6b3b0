package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

// RecordRepository archives completed coding records from the queued
// worker flow, grouped by batch.
type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS coding_records (
	id BIGSERIAL PRIMARY KEY,
	batch_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	patient_name TEXT,
	dob TEXT,
	age TEXT,
	service_date TEXT,
	provider_name TEXT,
	account_number TEXT,
	predicted_categories TEXT,
	icd_codes TEXT,
	cpt_codes_extracted TEXT,
	final_cpt_codes TEXT,
	comment TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_coding_records_batch ON coding_records(batch_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RecordRepository) InsertRecord(ctx context.Context, batchID string, rec domain.Record) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO coding_records (
	batch_id, filename, patient_name, dob, age, service_date, provider_name,
	account_number, predicted_categories, icd_codes, cpt_codes_extracted,
	final_cpt_codes, comment, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		batchID, rec.Filename, rec.PatientName, rec.DOB, rec.Age, rec.ServiceDate,
		rec.ProviderName, rec.AccountNumber, rec.PredictedCategories, rec.ICDCodes,
		rec.CPTCodesExtracted, rec.FinalCPTCodes, rec.Comment, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert coding record: %w", err)
	}
	return nil
}

func (r *RecordRepository) ListByBatch(ctx context.Context, batchID string) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT filename, patient_name, dob, age, service_date, provider_name,
	account_number, predicted_categories, icd_codes, cpt_codes_extracted,
	final_cpt_codes, comment
FROM coding_records
WHERE batch_id = $1
ORDER BY id
`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query coding records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.Filename, &rec.PatientName, &rec.DOB, &rec.Age, &rec.ServiceDate,
			&rec.ProviderName, &rec.AccountNumber, &rec.PredictedCategories,
			&rec.ICDCodes, &rec.CPTCodesExtracted, &rec.FinalCPTCodes, &rec.Comment,
		); err != nil {
			return nil, fmt.Errorf("scan coding record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coding records: %w", err)
	}
	return records, nil
}
