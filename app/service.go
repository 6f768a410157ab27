// Package app provides the matching orchestrator: it fetches the job and
// the eligible candidate pool, runs the configured scorer, and atomically
// replaces the job's persisted match set.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathwise/matchengine/adapters/lock"
	"github.com/pathwise/matchengine/adapters/repository"
	"github.com/pathwise/matchengine/adapters/repository/postgres"
	"github.com/pathwise/matchengine/config"
	"github.com/pathwise/matchengine/domain/model"
	"github.com/pathwise/matchengine/domain/scoring"
	"github.com/pathwise/matchengine/domain/scoring/semantic"
	"github.com/pathwise/matchengine/pkg/logger"
	"github.com/pathwise/matchengine/pkg/metrics"
)

// Run outcome labels for metrics.
const (
	outcomeCompleted = "completed"
	outcomeEmpty     = "empty"
	outcomeDegraded  = "degraded"
)

// RetrainSummary reports the result of a full rescore of all open jobs.
type RetrainSummary struct {
	JobsProcessed       int    `json:"jobs_processed"`
	CandidatesProcessed int    `json:"candidates_processed"`
	Status              string `json:"status"`
}

// Retrain status values.
const (
	RetrainSkipped   = "skipped"
	RetrainCompleted = "completed"
	RetrainFailed    = "failed"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence collaborator.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer sets the scoring strategy.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithLocker sets the per-job trigger lock.
func WithLocker(locker lock.Locker) Option {
	return func(s *Service) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithEligibleRoles restricts automatic discovery to the given roles.
func WithEligibleRoles(roles ...model.Role) Option {
	return func(s *Service) {
		if len(roles) > 0 {
			s.roles = roles
		}
	}
}

// WithRetrainWorkers bounds how many jobs a retrain rescores concurrently.
func WithRetrainWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retrainWorkers = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service drives matching runs. Triggers for the same job serialize on the
// locker; triggers for different jobs run in parallel, each fitting its own
// feature space.
type Service struct {
	store          repository.Store
	scorer         scoring.Scorer
	locker         lock.Locker
	roles          []model.Role
	retrainWorkers int
	log            logger.Logger
}

// New constructs a Service. Defaults: in-memory store, semantic scorer,
// in-process lock, employee and manager roles.
func New(opts ...Option) *Service {
	s := &Service{
		store:  repository.NewMemoryStore(),
		scorer: semantic.NewScorer(),
		locker: lock.NewKeyedMutex(),
		roles:  []model.Role{model.RoleEmployee, model.RoleManager},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("matching")
	}
	return s
}

// NewFromConfig wires a Service from loaded configuration: scorer strategy
// and thresholds, the PostgreSQL store when a database URL is set, and the
// Redis trigger lock when a Redis URL is set.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	wired := make([]Option, 0, len(opts)+3)

	switch cfg.Strategy {
	case config.StrategyRule:
		wired = append(wired, WithScorer(scoring.NewRuleScorer(
			scoring.WithWeights(scoring.Weights{
				RequiredExact:   cfg.Weights.RequiredExact,
				RequiredSimilar: cfg.Weights.RequiredSimilar,
				Optional:        cfg.Weights.Optional,
				Experience:      cfg.Weights.Experience,
				Career:          cfg.Weights.Career,
				Education:       cfg.Weights.Education,
				Certification:   cfg.Weights.Certification,
			}),
			scoring.WithQualifyingScore(cfg.QualifyingScore),
		)))
	case config.StrategySemantic:
		wired = append(wired, WithScorer(semantic.NewScorer(
			semantic.WithMaxFeatures(cfg.MaxFeatures),
			semantic.WithNgramRange(cfg.NgramMin, cfg.NgramMax),
			semantic.WithComponents(cfg.LSAComponents),
			semantic.WithMinSimilarity(cfg.MinSimilarity),
		)))
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", config.ErrInvalidConfig, cfg.Strategy)
	}

	if cfg.DatabaseURL != "" {
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("wiring store: %w", err)
		}
		wired = append(wired, WithStore(store))
	}

	if cfg.RedisURL != "" {
		locker, err := lock.NewRedisLockerFromURL(ctx, cfg.RedisURL,
			lock.WithLeaseTTL(time.Duration(cfg.LockTTLSeconds)*time.Second))
		if err != nil {
			return nil, fmt.Errorf("wiring lock: %w", err)
		}
		wired = append(wired, WithLocker(locker))
	}

	roles := make([]model.Role, 0, len(cfg.EligibleRoles))
	for _, r := range cfg.EligibleRoles {
		roles = append(roles, model.Role(r))
	}
	wired = append(wired, WithEligibleRoles(roles...))

	return New(append(wired, opts...)...), nil
}

// TriggerMatching recomputes the full match set for a job and replaces the
// persisted one. A missing job surfaces ErrJobNotFound with no side effects.
// An empty candidate pool or a failed feature-space fit completes the run
// with an empty result set, clearing stale non-shortlisted rows.
func (s *Service) TriggerMatching(ctx context.Context, jobID uuid.UUID) error {
	lockStart := time.Now()
	release, err := s.locker.Acquire(ctx, jobID.String())
	if err != nil {
		return fmt.Errorf("acquiring trigger lock for job %s: %w", jobID, err)
	}
	defer release()
	metrics.RecordLockWait(time.Since(lockStart).Seconds())

	start := time.Now()
	method := string(s.scorer.Method())

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("fetching job %s: %w", jobID, err)
	}

	candidates, err := s.eligibleCandidates(ctx)
	if err != nil {
		return fmt.Errorf("fetching candidates for job %s: %w", jobID, err)
	}
	metrics.UpdateLastPoolSize(len(candidates))

	outcome := outcomeCompleted
	var results []model.MatchResult
	switch {
	case len(candidates) == 0:
		s.log.Warn(ctx, "no eligible candidates, clearing matches",
			logger.String("jobID", jobID.String()))
		outcome = outcomeEmpty
	default:
		results, err = s.scorer.ScoreAll(ctx, job, candidates)
		if err != nil {
			// Scoring failure degrades to an empty match set rather than
			// leaving stale rows behind.
			s.log.Error(ctx, "scoring failed, clearing matches",
				logger.String("jobID", jobID.String()),
				logger.Error(err),
			)
			metrics.RecordScoringError()
			outcome = outcomeDegraded
			results = nil
		}
	}

	if err := s.store.ReplaceMatches(ctx, jobID, results); err != nil {
		return fmt.Errorf("persisting matches for job %s: %w", jobID, err)
	}

	metrics.RecordRun(method, outcome)
	metrics.RecordRunDuration(time.Since(start).Seconds())
	metrics.RecordMatchesPersisted(len(results))

	s.log.Info(ctx, "matching run finished",
		logger.String("jobID", jobID.String()),
		logger.String("method", method),
		logger.String("outcome", outcome),
		logger.Int("candidates", len(candidates)),
		logger.Int("matches", len(results)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// ScoreCandidate computes an ad hoc score for one (job, candidate) pair
// without touching persisted match rows. Internal scoring failures degrade
// to zero instead of surfacing; missing job or candidate is an error.
func (s *Service) ScoreCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (float64, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("fetching job %s: %w", jobID, err)
	}
	candidate, err := s.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return 0, fmt.Errorf("fetching candidate %s: %w", candidateID, err)
	}

	res, err := s.scorer.Score(ctx, job, candidate)
	if err != nil {
		s.log.Warn(ctx, "pair scoring failed, returning zero",
			logger.String("jobID", jobID.String()),
			logger.String("candidateID", candidateID.String()),
			logger.Error(err),
		)
		metrics.RecordScoringError()
		return 0, nil
	}
	return res.Score, nil
}

// RetrainModel drops any fitted state (feature spaces are per-run, so there
// is none to drop) and rescores every open job against the current pool.
func (s *Service) RetrainModel(ctx context.Context) (RetrainSummary, error) {
	jobs, err := s.store.ListOpenJobs(ctx)
	if err != nil {
		return RetrainSummary{Status: RetrainFailed}, fmt.Errorf("listing open jobs: %w", err)
	}
	if len(jobs) == 0 {
		return RetrainSummary{Status: RetrainSkipped}, nil
	}

	candidates, err := s.eligibleCandidates(ctx)
	if err != nil {
		return RetrainSummary{Status: RetrainFailed}, fmt.Errorf("listing candidates: %w", err)
	}

	// Jobs are independent (per-job locks, per-run feature spaces), so the
	// rescore fans out over a bounded pool.
	workers := s.retrainWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan model.JobProfile)
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if err := s.TriggerMatching(ctx, job.ID); err != nil {
					s.log.Error(ctx, "retrain: job failed",
						logger.String("jobID", job.ID.String()),
						logger.Error(err),
					)
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	summary := RetrainSummary{
		JobsProcessed:       len(jobs),
		CandidatesProcessed: len(candidates),
		Status:              RetrainCompleted,
	}
	if len(errs) > 0 {
		summary.Status = RetrainFailed
		return summary, errors.Join(errs...)
	}
	return summary, nil
}

// MatchesForJob returns the job's stored matches, best score first.
func (s *Service) MatchesForJob(ctx context.Context, jobID uuid.UUID) ([]model.MatchResult, error) {
	return s.store.MatchesForJob(ctx, jobID)
}

// MatchesForCandidate returns the candidate's stored matches, best first.
func (s *Service) MatchesForCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.MatchResult, error) {
	return s.store.MatchesForCandidate(ctx, candidateID)
}

// Shortlist records manual curation for an existing match row.
func (s *Service) Shortlist(ctx context.Context, jobID, candidateID uuid.UUID, shortlisted bool) error {
	return s.store.SetShortlisted(ctx, jobID, candidateID, shortlisted)
}

// eligibleCandidates queries the store and re-checks eligibility: a store
// that forgets the opt-out filter must not leak opted-out profiles into
// scoring.
func (s *Service) eligibleCandidates(ctx context.Context) ([]model.CandidateProfile, error) {
	candidates, err := s.store.EligibleCandidates(ctx, s.roles)
	if err != nil {
		return nil, err
	}
	eligible := candidates[:0]
	for _, c := range candidates {
		if c.Eligible() {
			eligible = append(eligible, c)
		}
	}
	return eligible, nil
}
