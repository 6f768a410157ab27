package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MATCH_CONFIG is set
//  3. env (prefix MATCH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: MATCH_STRATEGY, MATCH_MAX_FEATURES, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("MATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "match_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Strategy {
	case StrategyRule, StrategySemantic:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}
	if c.QualifyingScore < 0 || c.QualifyingScore > 100 {
		return fmt.Errorf("%w: qualifying_score %v outside [0, 100]", ErrInvalidConfig, c.QualifyingScore)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("%w: min_similarity %v outside [0, 1]", ErrInvalidConfig, c.MinSimilarity)
	}
	if c.NgramMin < 1 || c.NgramMax < c.NgramMin {
		return fmt.Errorf("%w: ngram range %d..%d", ErrInvalidConfig, c.NgramMin, c.NgramMax)
	}
	if c.MaxFeatures < 1 {
		return fmt.Errorf("%w: max_features must be positive", ErrInvalidConfig)
	}
	if c.LSAComponents < 1 {
		return fmt.Errorf("%w: lsa_components must be positive", ErrInvalidConfig)
	}
	return nil
}
