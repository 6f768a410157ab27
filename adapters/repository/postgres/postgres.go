// Package postgres implements the repository.Store contract on PostgreSQL
// using pgx. It maps between the platform's relational schema (years of
// experience, JSONB skill arrays) and the engine's canonical model (months,
// plain slices) at this boundary.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathwise/matchengine/adapters/repository"
	"github.com/pathwise/matchengine/domain/model"
)

const monthsPerYear = 12

// Store is a pgx-backed repository.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New creates and verifies a pooled connection and returns a Store on it.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool, which the caller keeps owning.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

const jobColumns = `
	j.id, j.title, j.team, j.description, COALESCE(j.short_description, ''),
	j.required_skills, j.optional_skills,
	COALESCE(j.min_years_experience, 0), j.preferred_certifications, j.status`

// GetJob implements repository.Store.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (model.JobProfile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+jobColumns+` FROM jobs j WHERE j.id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JobProfile{}, repository.ErrJobNotFound
		}
		return model.JobProfile{}, fmt.Errorf("getJob %s: %w", id, err)
	}
	return job, nil
}

// ListOpenJobs implements repository.Store.
func (s *Store) ListOpenJobs(ctx context.Context) ([]model.JobProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+jobColumns+` FROM jobs j WHERE j.status = 'open' ORDER BY j.id`)
	if err != nil {
		return nil, fmt.Errorf("listOpenJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.JobProfile, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("listOpenJobs scan: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

const candidateColumns = `
	e.id, e.role, COALESCE(e.current_job_title, ''), COALESCE(e.career_aspirations, ''),
	e.technical_skills, COALESCE(e.years_experience, 0),
	e.certifications, e.education, e.past_companies, e.achievements,
	COALESCE(e.visibility_opt_out, FALSE)`

// GetCandidate implements repository.Store.
func (s *Store) GetCandidate(ctx context.Context, id uuid.UUID) (model.CandidateProfile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+candidateColumns+` FROM employees e WHERE e.id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CandidateProfile{}, repository.ErrCandidateNotFound
		}
		return model.CandidateProfile{}, fmt.Errorf("getCandidate %s: %w", id, err)
	}
	return c, nil
}

// EligibleCandidates implements repository.Store. The opt-out filter lives
// in the query so ineligible profiles never reach the engine.
func (s *Store) EligibleCandidates(ctx context.Context, roles []model.Role) ([]model.CandidateProfile, error) {
	const base = `SELECT` + candidateColumns + ` FROM employees e WHERE NOT COALESCE(e.visibility_opt_out, FALSE)`

	var (
		rows pgx.Rows
		err  error
	)
	if len(roles) > 0 {
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		rows, err = s.pool.Query(ctx, base+` AND e.role = ANY($1) ORDER BY e.id`, names)
	} else {
		rows, err = s.pool.Query(ctx, base+` ORDER BY e.id`)
	}
	if err != nil {
		return nil, fmt.Errorf("eligibleCandidates query: %w", err)
	}
	defer rows.Close()

	out := make([]model.CandidateProfile, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("eligibleCandidates scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReplaceMatches implements repository.Store. The whole swap runs in one
// transaction holding a per-job advisory lock, so concurrent triggers for
// the same job serialize instead of interleaving their delete+insert cycles.
// Shortlisted rows are never deleted; an upsert for the same candidate
// refreshes the computed columns and leaves the flag alone.
func (s *Store) ReplaceMatches(ctx context.Context, jobID uuid.UUID, matches []model.MatchResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replaceMatches begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, jobID); err != nil {
		return fmt.Errorf("replaceMatches lock: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM job_matches WHERE job_id = $1 AND NOT shortlisted`, jobID); err != nil {
		return fmt.Errorf("replaceMatches delete: %w", err)
	}

	for _, m := range matches {
		skillsJSON, err := json.Marshal(m.SkillsMatched)
		if err != nil {
			return fmt.Errorf("replaceMatches encode skills: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_matches (job_id, employee_id, score, method, skills_match, shortlisted)
			 VALUES ($1, $2, $3, $4, $5, FALSE)
			 ON CONFLICT (job_id, employee_id) DO UPDATE
			 SET score = EXCLUDED.score,
			     method = EXCLUDED.method,
			     skills_match = EXCLUDED.skills_match,
			     updated_at = now()`,
			jobID, m.CandidateID, m.Score, string(m.Method), skillsJSON); err != nil {
			return fmt.Errorf("replaceMatches upsert %s: %w", m.CandidateID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replaceMatches commit: %w", err)
	}
	return nil
}

const matchColumns = `m.job_id, m.employee_id, m.score, m.method, m.skills_match, m.shortlisted`

// MatchesForJob implements repository.Store.
func (s *Store) MatchesForJob(ctx context.Context, jobID uuid.UUID) ([]model.MatchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+matchColumns+` FROM job_matches m
		 WHERE m.job_id = $1 ORDER BY m.score DESC, m.employee_id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("matchesForJob query: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// MatchesForCandidate implements repository.Store.
func (s *Store) MatchesForCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.MatchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+matchColumns+` FROM job_matches m
		 WHERE m.employee_id = $1 ORDER BY m.score DESC, m.employee_id ASC`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("matchesForCandidate query: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

// SetShortlisted implements repository.Store.
func (s *Store) SetShortlisted(ctx context.Context, jobID, candidateID uuid.UUID, shortlisted bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_matches SET shortlisted = $3, updated_at = now()
		 WHERE job_id = $1 AND employee_id = $2`,
		jobID, candidateID, shortlisted)
	if err != nil {
		return fmt.Errorf("setShortlisted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrMatchNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (model.JobProfile, error) {
	var (
		job      model.JobProfile
		minYears int
		status   string
	)
	if err := row.Scan(
		&job.ID, &job.Title, &job.Team, &job.Description, &job.ShortDescription,
		&job.RequiredSkills, &job.OptionalSkills,
		&minYears, &job.PreferredCerts, &status,
	); err != nil {
		return model.JobProfile{}, err
	}
	job.MinExperienceMonths = minYears * monthsPerYear
	job.Status = model.JobStatus(status)
	return job, nil
}

func scanCandidate(row pgx.Row) (model.CandidateProfile, error) {
	var (
		c        model.CandidateProfile
		role     string
		expYears int
	)
	if err := row.Scan(
		&c.ID, &role, &c.CurrentTitle, &c.Aspirations,
		&c.TechnicalSkills, &expYears,
		&c.Certifications, &c.Education, &c.PastEmployers, &c.Achievements,
		&c.OptedOut,
	); err != nil {
		return model.CandidateProfile{}, err
	}
	c.Role = model.Role(role)
	c.ExperienceMonths = expYears * monthsPerYear
	return c, nil
}

func collectMatches(rows pgx.Rows) ([]model.MatchResult, error) {
	out := make([]model.MatchResult, 0)
	for rows.Next() {
		var (
			m      model.MatchResult
			method string
		)
		if err := rows.Scan(
			&m.JobID, &m.CandidateID, &m.Score, &method, &m.SkillsMatched, &m.Shortlisted,
		); err != nil {
			return nil, fmt.Errorf("match scan: %w", err)
		}
		m.Method = model.Method(method)
		out = append(out, m)
	}
	return out, rows.Err()
}
