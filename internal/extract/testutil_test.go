package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mailharvest-engine/internal/rules"
)

type staticLoader []rules.Rule

func (l staticLoader) LoadKeywordRules(ctx context.Context) ([]rules.Rule, error) {
	return l, nil
}

func newTestRepo(t *testing.T, rs ...rules.Rule) *rules.Repository {
	t.Helper()
	repo := rules.NewRepository(staticLoader(rs))
	require.NoError(t, repo.Load(context.Background()))
	return repo
}

// extractionRules is the keyword fixture shared by the extraction tests.
func extractionRules() []rules.Rule {
	contains := func(category string, priority int, kws ...string) rules.Rule {
		return rules.Rule{Category: category, MatchType: rules.MatchContains, Priority: priority, Keywords: kws}
	}
	return []rules.Rule{
		{Category: "blocked_personal_domain", MatchType: rules.MatchExact, Action: rules.ActionBlock, Priority: 10,
			Keywords: []string{"gmail.com", "yahoo.com", "outlook.com"}},
		contains("blocked_ats_domain", 20, "greenhouse.io", "lever.co", "myworkday.com"),
		contains("ats_domains", 21, "smartrecruiters.com"),
		contains("client_language_keywords", 30, "our client", "end client", "client is"),
		contains("generic_company_terms", 40, "staffing", "solutions", "consulting"),
		contains("job_title_keywords", 50, "recruiter", "talent", "sourcer", "engineer", "developer"),
		contains("company_suffix_mapping", 60, "incorporated|inc", "limited|ltd"),
		contains("employment_patterns", 70, `W2|\bw-?2\b`, `C2C|\bc2c\b;corp.to.corp`, `CONTRACT|\bcontract\b`),
	}
}
