// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults and Load(ctx) for layered loading.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Strategy names accepted in configuration.
const (
	StrategyRule     = "rule"
	StrategySemantic = "semantic"
)

// Weights configures the rule scorer's per-feature budgets.
type Weights struct {
	RequiredExact   float64 `koanf:"required_exact"`
	RequiredSimilar float64 `koanf:"required_similar"`
	Optional        float64 `koanf:"optional"`
	Experience      float64 `koanf:"experience"`
	Career          float64 `koanf:"career"`
	Education       float64 `koanf:"education"`
	Certification   float64 `koanf:"certification"`
}

// Config contains engine configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Strategy selects the scorer: rule or semantic.
	Strategy string `koanf:"strategy"`

	// EligibleRoles restricts automatic discovery to these roles.
	EligibleRoles []string `koanf:"eligible_roles"`

	// QualifyingScore is the rule scorer's retention threshold (0-100).
	QualifyingScore float64 `koanf:"qualifying_score"`

	// MinSimilarity is the semantic scorer's raw cosine floor (0-1).
	MinSimilarity float64 `koanf:"min_similarity"`

	// MaxFeatures bounds the TF-IDF vocabulary.
	MaxFeatures int `koanf:"max_features"`

	// NgramMin and NgramMax set the n-gram expansion range.
	NgramMin int `koanf:"ngram_min"`
	NgramMax int `koanf:"ngram_max"`

	// LSAComponents sets the latent dimensionality of the reduced space.
	LSAComponents int `koanf:"lsa_components"`

	// Weights are the rule scorer's per-feature budgets.
	Weights Weights `koanf:"weights"`

	// DatabaseURL configures the PostgreSQL store; empty keeps the engine
	// on the in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// RedisURL configures the cross-instance trigger lock; empty keeps
	// locking in-process.
	RedisURL string `koanf:"redis_url"`

	// LockTTLSeconds bounds how long a crashed trigger holds a Redis lease.
	LockTTLSeconds int `koanf:"lock_ttl_seconds"`
}

// New creates a Config with engine defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Strategy:        StrategySemantic,
		EligibleRoles:   []string{"employee", "manager"},
		QualifyingScore: 20.0,
		MinSimilarity:   0.05,
		MaxFeatures:     1000,
		NgramMin:        1,
		NgramMax:        3,
		LSAComponents:   100,
		Weights: Weights{
			RequiredExact:   30,
			RequiredSimilar: 15,
			Optional:        10,
			Experience:      20,
			Career:          15,
			Education:       5,
			Certification:   5,
		},
		LockTTLSeconds: 30,
	}
}
