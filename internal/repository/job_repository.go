package repository

import (
	"context"
	"errors"

	"talent-match/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobRepository interface {
	GetByID(ctx context.Context, jobID uuid.UUID) (Job, error)
}

type Job struct {
	ID              uuid.UUID
	Title           string
	Skills          []string
	ExperienceLevel string
}

type PostgresJobRepository struct {
	db database.Querier
}

func NewPostgresJobRepository(db database.Querier) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (Job, error) {
	var j Job
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(title, ''), COALESCE(skills, '{}'), COALESCE(experience_level, '')
		 FROM jobs
		 WHERE id = $1`,
		jobID,
	)
	if err := row.Scan(&j.ID, &j.Title, &j.Skills, &j.ExperienceLevel); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return j, nil
}
