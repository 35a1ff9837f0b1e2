package repository

import (
	"context"
	"encoding/json"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"

	"github.com/google/uuid"
)

type EvaluationReportRepository interface {
	Save(ctx context.Context, jobID *uuid.UUID, report matching.EvaluationReport) (uuid.UUID, error)
}

type PostgresEvaluationReportRepository struct {
	db database.Querier
}

func NewPostgresEvaluationReportRepository(db database.Querier) *PostgresEvaluationReportRepository {
	return &PostgresEvaluationReportRepository{db: db}
}

func (r *PostgresEvaluationReportRepository) Save(ctx context.Context, jobID *uuid.UUID, report matching.EvaluationReport) (uuid.UUID, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = r.db.Exec(ctx,
		`INSERT INTO evaluation_reports (id, job_id, job_title, report, created_at)
		 VALUES ($1, $2, $3, $4, now())`,
		id, jobID, report.JobTitle, b,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
