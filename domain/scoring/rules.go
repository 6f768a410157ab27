package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pathwise/matchengine/domain/model"
	"github.com/pathwise/matchengine/domain/skills"
	"github.com/pathwise/matchengine/pkg/logger"
	"github.com/pathwise/matchengine/pkg/metrics"
)

// Default rule-scoring configuration constants.
const (
	defaultRequiredExactWeight   = 30.0
	defaultRequiredSimilarWeight = 15.0
	defaultOptionalWeight        = 10.0
	defaultExperienceWeight      = 20.0
	defaultCareerWeight          = 15.0
	defaultEducationWeight       = 5.0
	defaultCertificationWeight   = 5.0
	defaultQualifyingScore       = 20.0

	monthsPerYear = 12.0

	// Experience shaping: 20% penalty per missing year, and a small capped
	// bonus for each year beyond the requirement.
	deficitPenaltyPerYear = 0.2
	excessBonusPerYear    = 0.05
	maxExcessBonus        = 0.2

	// Career-alignment split between title overlap and skill mentions.
	noAspirationBaseline = 0.5
	titleOverlapShare    = 0.6
	skillMentionShare    = 0.4

	// Education shaping: each keyword or skill mention adds a step.
	educationStep = 0.2

	// Flat certification credit when the job states no preference.
	unlistedCertCredit = 0.3
)

// educationKeywords are the technology markers looked for in education text.
var educationKeywords = []string{
	"computer", "software", "engineering", "technology",
	"information", "data", "science", "mathematics",
}

// Weights holds the per-feature budgets of the rule scorer. The zero value
// is not useful; use DefaultWeights as the base.
type Weights struct {
	RequiredExact   float64
	RequiredSimilar float64
	Optional        float64
	Experience      float64
	Career          float64
	Education       float64
	Certification   float64
}

// DefaultWeights returns the standard feature budgets, summing to 100.
func DefaultWeights() Weights {
	return Weights{
		RequiredExact:   defaultRequiredExactWeight,
		RequiredSimilar: defaultRequiredSimilarWeight,
		Optional:        defaultOptionalWeight,
		Experience:      defaultExperienceWeight,
		Career:          defaultCareerWeight,
		Education:       defaultEducationWeight,
		Certification:   defaultCertificationWeight,
	}
}

// RuleOption applies a configuration option to the RuleScorer.
type RuleOption func(*RuleScorer)

// WithWeights overrides the per-feature budgets.
func WithWeights(w Weights) RuleOption {
	return func(s *RuleScorer) {
		s.weights = w
	}
}

// WithQualifyingScore sets the minimum score a candidate must reach to be
// retained as a match.
func WithQualifyingScore(min float64) RuleOption {
	return func(s *RuleScorer) {
		if min >= 0 {
			s.qualifyingScore = min
		}
	}
}

// WithRuleLogger sets a custom logger for batch scoring.
func WithRuleLogger(l logger.Logger) RuleOption {
	return func(s *RuleScorer) {
		if l != nil {
			s.log = l
		}
	}
}

// RuleScorer scores candidates with deterministic weighted features: exact
// and fuzzy skill matching, experience thresholds, and keyword heuristics.
// It needs no statistical machinery and every pair is scored independently.
type RuleScorer struct {
	weights         Weights
	qualifyingScore float64
	log             logger.Logger
}

// NewRuleScorer creates a rule-based scorer with configuration options.
func NewRuleScorer(opts ...RuleOption) *RuleScorer {
	s := &RuleScorer{
		weights:         DefaultWeights(),
		qualifyingScore: defaultQualifyingScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Method implements Scorer.
func (s *RuleScorer) Method() model.Method {
	return model.MethodRuleBased
}

// Score implements Scorer for a single pair.
func (s *RuleScorer) Score(_ context.Context, job model.JobProfile, candidate model.CandidateProfile) (model.MatchResult, error) {
	if candidate.ID == uuid.Nil {
		return model.MatchResult{}, fmt.Errorf("candidate without id: %w", ErrMalformedProfile)
	}

	required := skills.NormalizeSet(job.RequiredSkills)
	optional := skills.NormalizeSet(job.OptionalSkills)
	candSkills := skills.NormalizeSet(candidate.TechnicalSkills)

	matched, unmatched := partitionRequired(required, candSkills)

	total := s.weights.RequiredExact * exactFraction(required, matched)
	total += s.weights.RequiredSimilar * similarFraction(required, unmatched, candSkills)
	total += s.weights.Optional * optionalFraction(optional, candSkills)
	total += s.weights.Experience * experienceFactor(job.MinExperienceMonths, candidate.ExperienceMonths)
	total += s.weights.Career * careerAlignment(job, required, candidate.Aspirations)
	total += s.weights.Education * educationRelevance(candidate.Education, required)
	total += s.weights.Certification * certificationCredit(job.PreferredCerts, candidate.Certifications)

	return model.MatchResult{
		JobID:         job.ID,
		CandidateID:   candidate.ID,
		Score:         model.RoundScore(total),
		Method:        model.MethodRuleBased,
		SkillsMatched: matched,
	}, nil
}

// ScoreAll implements Scorer. Candidates that fail to score are skipped with
// a warning so one malformed profile never aborts the batch.
func (s *RuleScorer) ScoreAll(ctx context.Context, job model.JobProfile, candidates []model.CandidateProfile) ([]model.MatchResult, error) {
	results := make([]model.MatchResult, 0, len(candidates))
	for _, c := range candidates {
		res, err := s.Score(ctx, job, c)
		if err != nil {
			if errors.Is(err, ErrMalformedProfile) {
				s.logger().Warn(ctx, "skipping unscorable candidate",
					logger.String("candidateID", c.ID.String()),
					logger.Error(err),
				)
				metrics.RecordCandidateSkipped()
				continue
			}
			return nil, err
		}
		if res.Score < s.qualifyingScore {
			continue
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID.String() < results[j].CandidateID.String()
	})
	return results, nil
}

func (s *RuleScorer) logger() logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.Get()
}

// partitionRequired splits the required set into exactly matched and
// unmatched skills.
func partitionRequired(required, candSkills []string) (matched, unmatched []string) {
	candSet := make(map[string]struct{}, len(candSkills))
	for _, s := range candSkills {
		candSet[s] = struct{}{}
	}
	for _, r := range required {
		if _, ok := candSet[r]; ok {
			matched = append(matched, r)
		} else {
			unmatched = append(unmatched, r)
		}
	}
	return matched, unmatched
}

// exactFraction is |required ∩ candidate| / |required|; an empty required
// set counts as fully satisfied.
func exactFraction(required, matched []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	return float64(len(matched)) / float64(len(required))
}

// similarFraction averages, over the required skills that did not match
// exactly, the best pairwise similarity to any candidate skill. With nothing
// left unmatched the requirement is fully covered.
func similarFraction(required, unmatched, candSkills []string) float64 {
	if len(required) == 0 || len(unmatched) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, r := range unmatched {
		sum += skills.BestSimilarity(r, candSkills)
	}
	return sum / float64(len(unmatched))
}

// optionalFraction is the exact-match fraction against the optional skill
// set. A job without optional skills awards nothing here rather than free
// points for everyone.
func optionalFraction(optional, candSkills []string) float64 {
	if len(optional) == 0 {
		return 0
	}
	candSet := make(map[string]struct{}, len(candSkills))
	for _, s := range candSkills {
		candSet[s] = struct{}{}
	}
	hit := 0
	for _, o := range optional {
		if _, ok := candSet[o]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(optional))
}

// experienceFactor is 1.0 when the candidate meets the minimum, plus a small
// capped bonus per excess year; under the minimum it decays linearly by 20%
// per missing year, floored at zero. No minimum means full credit.
func experienceFactor(minMonths, haveMonths int) float64 {
	if minMonths <= 0 {
		return 1.0
	}
	diffYears := float64(haveMonths-minMonths) / monthsPerYear
	if diffYears >= 0 {
		bonus := diffYears * excessBonusPerYear
		if bonus > maxExcessBonus {
			bonus = maxExcessBonus
		}
		return 1.0 + bonus
	}
	factor := 1.0 + diffYears*deficitPenaltyPerYear
	if factor < 0 {
		return 0
	}
	return factor
}

// careerAlignment rewards aspiration text that overlaps the job title and
// mentions required skills. Without aspiration text a neutral baseline
// applies.
func careerAlignment(job model.JobProfile, required []string, aspirations string) float64 {
	asp := skills.CleanText(aspirations)
	if asp == "" {
		return noAspirationBaseline
	}
	aspTokens := skills.TokenSet(asp)

	titleTokens := skills.Tokens(job.Title)
	titleHits := 0
	for _, t := range titleTokens {
		if _, ok := aspTokens[t]; ok {
			titleHits++
		}
	}
	alignment := 0.0
	if len(titleTokens) > 0 {
		alignment += titleOverlapShare * float64(titleHits) / float64(len(titleTokens))
	}

	if len(required) > 0 {
		mentioned := 0
		for _, r := range required {
			if strings.Contains(asp, r) {
				mentioned++
			}
		}
		alignment += skillMentionShare * float64(mentioned) / float64(len(required))
	}
	return alignment
}

// educationRelevance adds a step per technology keyword or required-skill
// mention found in the education text, capped at full weight.
func educationRelevance(education, required []string) float64 {
	if len(education) == 0 {
		return 0
	}
	text := skills.CleanText(strings.Join(education, " "))
	relevance := 0.0
	for _, kw := range educationKeywords {
		if strings.Contains(text, kw) {
			relevance += educationStep
		}
	}
	for _, r := range required {
		if strings.Contains(text, r) {
			relevance += educationStep
		}
	}
	if relevance > 1.0 {
		return 1.0
	}
	return relevance
}

// certificationCredit is proportional to the preferred certifications found
// in the candidate's certification text; holding any certification earns a
// small flat credit when the job lists no preference.
func certificationCredit(preferred, held []string) float64 {
	if len(held) == 0 {
		return 0
	}
	normPreferred := skills.NormalizeSet(preferred)
	if len(normPreferred) == 0 {
		return unlistedCertCredit
	}
	text := skills.CleanText(strings.Join(held, " "))
	hit := 0
	for _, p := range normPreferred {
		if strings.Contains(text, p) {
			hit++
		}
	}
	return float64(hit) / float64(len(normPreferred))
}
