package model

import (
	"math"

	"github.com/google/uuid"
)

// Method identifies which scorer produced a match.
type Method string

// Scoring methods.
const (
	MethodRuleBased Method = "rule_based"
	MethodSemantic  Method = "semantic_tfidf_lsa"
)

// MatchResult is one scored (job, candidate) pair. Score is a percentage in
// [0, 100] with one decimal of precision. Shortlisted is manual curation
// owned by HR/managers: the engine always writes it as false and the store
// preserves any existing flag on replace.
type MatchResult struct {
	JobID         uuid.UUID
	CandidateID   uuid.UUID
	Score         float64
	Method        Method
	SkillsMatched []string
	Shortlisted   bool
}

// RoundScore clamps a raw percentage into [0, 100] and rounds it to one
// decimal place, the precision stored on match rows.
func RoundScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}
