package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/jsondate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
)

// ExperienceRecord is the stored shape of one entry in candidates.experience.
type ExperienceRecord struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsCurrent bool       `json:"isCurrent"`
}

// UnmarshalJSON drops dates it cannot read instead of failing the record.
func (r *ExperienceRecord) UnmarshalJSON(b []byte) error {
	var raw struct {
		StartDate *jsondate.Date `json:"startDate"`
		EndDate   *jsondate.Date `json:"endDate"`
		IsCurrent bool           `json:"isCurrent"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = ExperienceRecord{
		StartDate: raw.StartDate.Ptr(),
		EndDate:   raw.EndDate.Ptr(),
		IsCurrent: raw.IsCurrent,
	}
	return nil
}

type Applicant struct {
	ApplicationID uuid.UUID
	CandidateID   uuid.UUID
	Name          string
	Email         string
	Skills        []string
	Experience    []ExperienceRecord
	HasEducation  bool
	ResumeURL     string
}

type ApplicationForAnalysis struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	JobTitle       string
	RequiredSkills []string
	ResumeURL      string
}

type ScoreUpdate struct {
	ApplicationID  uuid.UUID
	Score          int
	Recommendation string
	MatchedSkills  []string
}

type ApplicationRepository interface {
	ListApplicantsByJob(ctx context.Context, jobID uuid.UUID) ([]Applicant, error)
	GetForAnalysis(ctx context.Context, applicationID uuid.UUID) (ApplicationForAnalysis, error)
	SaveSkillAnalysis(ctx context.Context, applicationID uuid.UUID, analysis matching.SkillAnalysis) error
	SaveScore(ctx context.Context, u ScoreUpdate) error
}

type PostgresApplicationRepository struct {
	db database.Querier
}

func NewPostgresApplicationRepository(db database.Querier) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) ListApplicantsByJob(ctx context.Context, jobID uuid.UUID) ([]Applicant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, c.id, COALESCE(c.name, ''), COALESCE(c.email, ''),
		        COALESCE(c.skills, '{}'), COALESCE(c.experience, '[]'::jsonb),
		        COALESCE(c.has_education, false),
		        COALESCE(NULLIF(a.resume_url, ''), c.resume_url, '')
		 FROM applications a
		 JOIN candidates c ON c.id = a.candidate_id
		 WHERE a.job_id = $1
		 ORDER BY a.created_at ASC, a.id ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Applicant, 0)
	for rows.Next() {
		var a Applicant
		var experience []byte
		if err := rows.Scan(&a.ApplicationID, &a.CandidateID, &a.Name, &a.Email, &a.Skills, &experience, &a.HasEducation, &a.ResumeURL); err != nil {
			return nil, err
		}
		if a.Skills == nil {
			a.Skills = []string{}
		}
		a.Experience, err = decodeExperience(experience)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", a.CandidateID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) GetForAnalysis(ctx context.Context, applicationID uuid.UUID) (ApplicationForAnalysis, error) {
	var a ApplicationForAnalysis
	row := r.db.QueryRow(ctx,
		`SELECT a.id, j.id, COALESCE(j.title, ''), COALESCE(j.skills, '{}'),
		        COALESCE(NULLIF(a.resume_url, ''), c.resume_url, '')
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN candidates c ON c.id = a.candidate_id
		 WHERE a.id = $1`,
		applicationID,
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.JobTitle, &a.RequiredSkills, &a.ResumeURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ApplicationForAnalysis{}, ErrApplicationNotFound
		}
		return ApplicationForAnalysis{}, err
	}
	if a.RequiredSkills == nil {
		a.RequiredSkills = []string{}
	}
	return a, nil
}

func (r *PostgresApplicationRepository) SaveSkillAnalysis(ctx context.Context, applicationID uuid.UUID, analysis matching.SkillAnalysis) error {
	b, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	analyzedAt := analysis.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	n, err := r.db.Exec(ctx,
		`UPDATE applications SET skill_analysis = $2, analyzed_at = $3 WHERE id = $1`,
		applicationID, b, analyzedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) SaveScore(ctx context.Context, u ScoreUpdate) error {
	if u.ApplicationID == uuid.Nil {
		return nil
	}
	matched := u.MatchedSkills
	if matched == nil {
		matched = []string{}
	}

	n, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET score = $2,
		     recommendation = $3,
		     skill_analysis = COALESCE(skill_analysis, '{}'::jsonb) || jsonb_build_object('matchedSkills', $4::text[])
		 WHERE id = $1`,
		u.ApplicationID, u.Score, u.Recommendation, matched,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func decodeExperience(b []byte) ([]ExperienceRecord, error) {
	out := []ExperienceRecord{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode experience: %w", err)
	}
	if out == nil {
		out = []ExperienceRecord{}
	}
	return out, nil
}

// ToProfile adapts a stored applicant into the scoring input.
func (a Applicant) ToProfile() matching.CandidateProfile {
	entries := make([]matching.ExperienceEntry, 0, len(a.Experience))
	for _, e := range a.Experience {
		entries = append(entries, matching.ExperienceEntry{Start: e.StartDate, End: e.EndDate, IsCurrent: e.IsCurrent})
	}
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	return matching.CandidateProfile{
		ID:           a.CandidateID.String(),
		Name:         a.Name,
		Email:        a.Email,
		Skills:       skills,
		Experience:   entries,
		HasEducation: a.HasEducation,
		HasResume:    a.ResumeURL != "",
	}
}
