package extract

import (
	"sort"
	"strings"

	"mailharvest-engine/internal/rules"
)

// EmploymentExtractor detects employment/contract types (W2, C2C, 1099,
// Full-time, Contract, ...) using patterns from the employment_patterns
// rule category.
type EmploymentExtractor struct {
	repo *rules.Repository
}

func NewEmploymentExtractor(repo *rules.Repository) *EmploymentExtractor {
	return &EmploymentExtractor{repo: repo}
}

// bodyPreviewLen limits how deep into the body we look; employment terms
// show up early or not at all.
const bodyPreviewLen = 1000

// Types returns the sorted unique employment types found in the subject
// and the start of the body. Subject is checked first, being the most
// reliable spot.
func (e *EmploymentExtractor) Types(body, subject string) []string {
	patterns := e.repo.Current().EmploymentPatterns()
	if len(patterns) == 0 {
		return nil
	}

	found := map[string]bool{}
	scan := func(text string) {
		if text == "" {
			return
		}
		for _, p := range patterns {
			if found[p.Type] {
				continue
			}
			for _, re := range p.Patterns {
				if re.MatchString(text) {
					found[p.Type] = true
					break
				}
			}
		}
	}

	scan(subject)
	if len(body) > bodyPreviewLen {
		body = body[:bodyPreviewLen]
	}
	scan(body)

	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for t := range found {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TypesString renders the types list as "W2, C2C" or "".
func (e *EmploymentExtractor) TypesString(body, subject string) string {
	return strings.Join(e.Types(body, subject), ", ")
}
