package screening

import (
	"fmt"
	"strings"
)

// ScoreMode selects how a match is turned into a number.
type ScoreMode string

const (
	// ScoreDistinct counts each matched skill once.
	ScoreDistinct ScoreMode = "distinct"
	// ScoreOccurrences sums how often each matched skill appears in the text.
	ScoreOccurrences ScoreMode = "occurrences"
)

// ParseScoreMode accepts "distinct" (or empty) and "occurrences".
func ParseScoreMode(s string) (ScoreMode, error) {
	switch ScoreMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScoreDistinct:
		return ScoreDistinct, nil
	case ScoreOccurrences:
		return ScoreOccurrences, nil
	default:
		return "", fmt.Errorf("unknown score mode: %q", s)
	}
}

// Matcher finds required skills in resume text by case-insensitive substring
// containment.
type Matcher struct {
	mode ScoreMode
}

func NewMatcher(mode ScoreMode) Matcher {
	if mode != ScoreOccurrences {
		mode = ScoreDistinct
	}
	return Matcher{mode: mode}
}

func (m Matcher) Mode() ScoreMode {
	if m.mode == "" {
		return ScoreDistinct
	}
	return m.mode
}

// Match returns the score and the lowercased matched skills in the order they
// were required. Skills are matched verbatim apart from case, so surrounding
// spaces are part of the keyword. Duplicate and empty skills are ignored.
func (m Matcher) Match(resumeText string, requiredSkills []string) (int, []string) {
	matched := []string{}
	if resumeText == "" || len(requiredSkills) == 0 {
		return 0, matched
	}

	text := strings.ToLower(resumeText)
	seen := make(map[string]struct{}, len(requiredSkills))
	score := 0

	for _, skill := range requiredSkills {
		needle := strings.ToLower(skill)
		if needle == "" {
			continue
		}
		if _, dup := seen[needle]; dup {
			continue
		}
		seen[needle] = struct{}{}

		if !strings.Contains(text, needle) {
			continue
		}
		matched = append(matched, needle)

		if m.Mode() == ScoreOccurrences {
			score += strings.Count(text, needle)
		} else {
			score++
		}
	}

	return score, matched
}
