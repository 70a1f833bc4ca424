package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"alfredoptarigan/cv-screener/internal/screening"
)

var ErrInvalidRules = errors.New("invalid screening rules")

// Rules holds the scoring vocabulary and shortlist policy.
type Rules struct {
	// ShortlistThreshold is the minimum score for a provisional shortlist.
	ShortlistThreshold int `koanf:"shortlist_threshold"`

	// TopN is how many candidates are ranked per job.
	TopN int `koanf:"top_n"`

	// ScoreMode is "distinct" or "occurrences".
	ScoreMode string `koanf:"score_mode"`

	// Jobs maps job ids to required skill keywords.
	Jobs map[string][]string `koanf:"jobs"`
}

// DefaultRules returns a fresh copy of the built-in rules.
func DefaultRules() *Rules {
	return &Rules{
		ShortlistThreshold: screening.DefaultShortlistThreshold,
		TopN:               screening.DefaultTopN,
		ScoreMode:          string(screening.ScoreDistinct),
		Jobs: map[string][]string{
			"1021":      {"python", "flask", "api", "sql", "git"},
			"job_id_2":  {"javascript", "react", "html", "css", "node"},
			"developer": {"python", "javascript", "api", "git", "sql"},
			"designer":  {"figma", "ui", "ux", "adobe", "design"},
		},
	}
}

// LoadRules layers defaults, the YAML file at path (if any) and SCREENER_*
// environment variables, in that order of precedence.
func LoadRules(_ context.Context, path string) (*Rules, error) {
	base := DefaultRules()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load rules file %s: %w", path, err)
		}
	}

	// SCREENER_TOP_N -> top_n. SCREENER_RULES names the file and is skipped.
	envProvider := env.Provider("SCREENER_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "SCREENER_"))
		if s == "rules" {
			return ""
		}
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load rules from env: %w", err)
	}

	rules := *base
	if k.Exists("jobs") {
		rules.Jobs = nil
	}
	if err := k.UnmarshalWithConf("", &rules, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) Validate() error {
	if r.ShortlistThreshold < 0 {
		return fmt.Errorf("%w: shortlist_threshold must not be negative", ErrInvalidRules)
	}
	if r.TopN < 0 {
		return fmt.Errorf("%w: top_n must not be negative", ErrInvalidRules)
	}
	if _, err := screening.ParseScoreMode(r.ScoreMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return nil
}

// Mode returns the parsed score mode. Call Validate first.
func (r *Rules) Mode() screening.ScoreMode {
	mode, _ := screening.ParseScoreMode(r.ScoreMode)
	return mode
}

// Table returns a copy of the jobs table.
func (r *Rules) Table() screening.RequirementTable {
	table := make(screening.RequirementTable, len(r.Jobs))
	for id, skills := range r.Jobs {
		table[id] = append([]string(nil), skills...)
	}
	return table
}
