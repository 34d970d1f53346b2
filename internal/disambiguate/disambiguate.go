// Package disambiguate implements the block/allow guard (C4) that runs
// after any positive skill match to rule out context-dependent false
// positives such as "Java" matching inside "JavaScript frameworks".
package disambiguate

import (
	"strings"

	"github.com/nexusats/matchengine/internal/domain"
)

// Passes evaluates a master skill's disambiguation rules against the
// combined canonicalized raw mention and context text. Missing or
// malformed rules fail open (allow):
//
//   - if BlockIfContains is non-empty and any phrase occurs in the combined
//     text, the match is blocked;
//   - else if AllowIfContains is non-empty, at least one phrase must occur,
//     otherwise the match is blocked;
//   - else the match is allowed.
func Passes(rules *domain.DisambiguationRules, canonicalRaw, canonicalContext string) bool {
	if rules == nil {
		return true
	}

	combined := canonicalRaw
	if canonicalContext != "" {
		combined = canonicalRaw + " " + canonicalContext
	}

	if len(rules.BlockIfContains) > 0 {
		for _, phrase := range rules.BlockIfContains {
			if phrase == "" {
				continue
			}
			if strings.Contains(combined, phrase) {
				return false
			}
		}
	}

	if len(rules.AllowIfContains) > 0 {
		for _, phrase := range rules.AllowIfContains {
			if phrase == "" {
				continue
			}
			if strings.Contains(combined, phrase) {
				return true
			}
		}
		return false
	}

	return true
}
