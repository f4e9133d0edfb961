package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ats-backend/internal/contract"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, resume_text, job_role, experience_level, target_country, ats_score, analysis_result, created_at`

// Create inserts a new analysis; id and created_at are assigned by the database.
func (r *PGRepo) Create(ctx context.Context, analysis NewAnalysis) (contract.AnalysisRecord, error) {
	if err := analysis.validate(); err != nil {
		return contract.AnalysisRecord{}, err
	}
	payload, err := json.Marshal(analysis.Result)
	if err != nil {
		return contract.AnalysisRecord{}, fmt.Errorf("marshal analysis_result: %w", err)
	}

	const query = `
INSERT INTO analyses (resume_text, job_role, experience_level, target_country, ats_score, analysis_result)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	record := analysis.record(0, time.Time{})
	if err := r.DB.QueryRowContext(ctx, query,
		analysis.ResumeText,
		analysis.JobRole,
		analysis.ExperienceLevel,
		analysis.TargetCountry,
		analysis.ATSScore,
		payload,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return contract.AnalysisRecord{}, fmt.Errorf("insert analysis: %w", err)
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}

// List returns all analyses newest first.
func (r *PGRepo) List(ctx context.Context) ([]contract.AnalysisRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM analyses ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := []contract.AnalysisRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return out, nil
}

// GetByID returns an analysis by its ID.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (contract.AnalysisRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM analyses WHERE id = $1`
	record, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return contract.AnalysisRecord{}, ErrNotFound
	}
	if err != nil {
		return contract.AnalysisRecord{}, err
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (contract.AnalysisRecord, error) {
	var (
		record  contract.AnalysisRecord
		payload []byte
	)
	if err := row.Scan(
		&record.ID,
		&record.ResumeText,
		&record.JobRole,
		&record.ExperienceLevel,
		&record.TargetCountry,
		&record.ATSScore,
		&payload,
		&record.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contract.AnalysisRecord{}, err
		}
		return contract.AnalysisRecord{}, fmt.Errorf("scan analysis: %w", err)
	}
	if err := json.Unmarshal(payload, &record.AnalysisResult); err != nil {
		return contract.AnalysisRecord{}, fmt.Errorf("decode analysis_result id=%d: %w", record.ID, err)
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return record, nil
}
