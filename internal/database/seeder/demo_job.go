package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

// DemoJobID is stable so repeated seeding touches the same rows.
var DemoJobID = uuid.MustParse("6b2f4a0e-3c1d-4e8f-9a7b-5d2c1e0f4a11")

type demoCandidate struct {
	Name         string
	Email        string
	Skills       []string
	Experience   []repository.ExperienceRecord
	HasEducation bool
	ResumeURL    string
}

// DemoJobSeeder inserts one job with a handful of applicants covering the
// shortlist, consider and decline bands.
type DemoJobSeeder struct{}

func (DemoJobSeeder) Name() string { return "demo_job" }

func (DemoJobSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "skills", "experience_level"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "candidates", "id", "name", "email", "skills", "experience", "has_education", "resume_url"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, title, skills, experience_level) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, skills = EXCLUDED.skills, experience_level = EXCLUDED.experience_level`,
			DemoJobID, "Backend Engineer", []string{"Go", "PostgreSQL", "Docker", "Kubernetes"}, "Mid Level",
		); err != nil {
			return fmt.Errorf("insert job: %w", err)
		}

		for _, c := range demoCandidates() {
			exp, err := json.Marshal(c.Experience)
			if err != nil {
				return err
			}

			var candidateID uuid.UUID
			if err := tx.QueryRow(ctx,
				`INSERT INTO candidates (name, email, skills, experience, has_education, resume_url)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, skills = EXCLUDED.skills,
				   experience = EXCLUDED.experience, has_education = EXCLUDED.has_education, resume_url = EXCLUDED.resume_url
				 RETURNING id`,
				c.Name, c.Email, c.Skills, exp, c.HasEducation, c.ResumeURL,
			).Scan(&candidateID); err != nil {
				return fmt.Errorf("insert candidate %s: %w", c.Email, err)
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO applications (job_id, candidate_id, resume_url) VALUES ($1, $2, $3)
				 ON CONFLICT (job_id, candidate_id) DO NOTHING`,
				DemoJobID, candidateID, c.ResumeURL,
			); err != nil {
				return fmt.Errorf("insert application %s: %w", c.Email, err)
			}
		}
		return nil
	})
}

func demoCandidates() []demoCandidate {
	date := func(y int, m time.Month) *time.Time {
		t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return []demoCandidate{
		{
			Name:   "Ayu Lestari",
			Email:  "ayu.lestari@example.com",
			Skills: []string{"Go", "PostgreSQL", "Docker", "gRPC"},
			Experience: []repository.ExperienceRecord{
				{StartDate: date(2018, time.March), EndDate: date(2021, time.June)},
				{StartDate: date(2021, time.July), IsCurrent: true},
			},
			HasEducation: true,
			ResumeURL:    "https://files.example.com/resumes/ayu-lestari.pdf",
		},
		{
			Name:   "Budi Santoso",
			Email:  "budi.santoso@example.com",
			Skills: []string{"Python", "Docker"},
			Experience: []repository.ExperienceRecord{
				{StartDate: date(2022, time.January), EndDate: date(2023, time.December)},
			},
			HasEducation: true,
		},
		{
			Name:   "Citra Dewi",
			Email:  "citra.dewi@example.com",
			Skills: []string{},
		},
	}
}
