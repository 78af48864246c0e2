package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
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

func defaultRules() []rules.Rule {
	return []rules.Rule{
		{Category: "blocked_automation_domain", MatchType: rules.MatchExact, Action: rules.ActionBlock, Priority: 10,
			Keywords: []string{"linkedin.com", "indeed.com"}},
		{Category: "allowed_sender", MatchType: rules.MatchExact, Action: rules.ActionAllow, Priority: 20,
			Keywords: []string{"trusted.example.com"}},
		{Category: "recruiter_keywords", MatchType: rules.MatchContains, Priority: 100,
			Keywords: []string{"opportunity", "position", "recruiter", "staffing"}, Weight: 1, Target: rules.TargetBoth},
		{Category: "anti_recruiter_keywords", MatchType: rules.MatchContains, Priority: 110,
			Keywords: []string{"unsubscribe", "webinar", "newsletter", "sale", "discount"}},
	}
}

func TestExtractAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane Doe <jane@corp.example.com>", "jane@corp.example.com"},
		{"jane@corp.example.com", "jane@corp.example.com"},
		{"Jane Doe (jane@corp.example.com)", "jane@corp.example.com"},
		{"JANE@CORP.EXAMPLE.COM", "jane@corp.example.com"},
		{"not an address", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractAddress(tc.in), "input %q", tc.in)
	}
}

func TestClassifySenderRuleMatch(t *testing.T) {
	f := New(newTestRepo(t, defaultRules()...), nil, 2)

	// Blocked via the domain rule, not the random-token heuristic.
	assert.Equal(t, rules.ActionBlock, f.ClassifySender("Jobs <noreply@linkedin.com>"))
	assert.Equal(t, rules.ActionAllow, f.ClassifySender("Recruiter <recruiter@trusted.example.com>"))
	assert.Equal(t, rules.ActionAllow, f.ClassifySender("Jane <jane.doe@agency.example.com>"))
}

func TestClassifySenderFirstMatchWins(t *testing.T) {
	// Allow at priority 1 beats block at priority 5 for the same sender.
	f := New(newTestRepo(t,
		rules.Rule{Category: "allowed_sender", MatchType: rules.MatchExact, Action: rules.ActionAllow, Priority: 1,
			Keywords: []string{"vip@both.example.com"}},
		rules.Rule{Category: "blocked_domain", MatchType: rules.MatchExact, Action: rules.ActionBlock, Priority: 5,
			Keywords: []string{"both.example.com"}},
	), nil, 2)

	assert.Equal(t, rules.ActionAllow, f.ClassifySender("vip@both.example.com"))
	assert.Equal(t, rules.ActionBlock, f.ClassifySender("other@both.example.com"))
}

func TestClassifySenderRandomTokenFallback(t *testing.T) {
	f := New(newTestRepo(t, defaultRules()...), nil, 2)

	// Long digit-bearing token.
	assert.Equal(t, rules.ActionBlock, f.ClassifySender("bounce3048561297@mailer.example.com"))
	// Pure hex token of length >= 8.
	assert.Equal(t, rules.ActionBlock, f.ClassifySender("deadbeef01@mailer.example.com"))
	// Tokens are split on ._-+ before the check.
	assert.Equal(t, rules.ActionBlock, f.ClassifySender("x.a1b2c3d4e5f6@mailer.example.com"))
	// Ordinary human local parts pass.
	assert.Equal(t, rules.ActionAllow, f.ClassifySender("jane.doe@agency.example.com"))
	assert.Equal(t, rules.ActionAllow, f.ClassifySender("jsmith+work@agency.example.com"))
}

func TestClassifySenderMalformedBlocks(t *testing.T) {
	f := New(newTestRepo(t, defaultRules()...), nil, 2)
	assert.Equal(t, rules.ActionBlock, f.ClassifySender(""))
	assert.Equal(t, rules.ActionBlock, f.ClassifySender("completely broken header"))
}

func TestScoreContentTargets(t *testing.T) {
	f := New(newTestRepo(t,
		rules.Rule{Category: "recruiter_keywords", MatchType: rules.MatchContains, Priority: 1,
			Keywords: []string{"opportunity"}, Weight: 2, Target: rules.TargetSubject},
		rules.Rule{Category: "recruiter_keywords", MatchType: rules.MatchContains, Priority: 2,
			Keywords: []string{"resume"}, Weight: 3, Target: rules.TargetBody},
	), nil, 2)

	assert.Equal(t, 2, f.ScoreContent("New Opportunity", "nothing relevant"))
	assert.Equal(t, 3, f.ScoreContent("nothing", "please send your resume"))
	assert.Equal(t, 5, f.ScoreContent("New Opportunity", "please send your resume"))
	// Subject-targeted keyword in the body does not count.
	assert.Equal(t, 0, f.ScoreContent("nothing", "an opportunity awaits"))
}

func TestIsRecruiterThreshold(t *testing.T) {
	f := New(newTestRepo(t, defaultRules()...), nil, 2)
	ctx := context.Background()

	assert.True(t, f.IsRecruiter(ctx, "Exciting opportunity", "We have a position for you", "jane@agency.example.com"))
	assert.False(t, f.IsRecruiter(ctx, "Lunch on Friday?", "See you at noon", "jane@agency.example.com"))
}

func TestIsRecruiterAntiKeywordVeto(t *testing.T) {
	f := New(newTestRepo(t, defaultRules()...), nil, 2)

	// Four anti hits veto a message even with two recruiter keywords in
	// the subject.
	subject := "Recruiter opportunity"
	body := "unsubscribe | webinar | newsletter | discount inside"
	assert.False(t, f.IsRecruiter(context.Background(), subject, body, "jane@agency.example.com"))

	// Three anti hits do not veto.
	body = "unsubscribe | webinar | newsletter"
	assert.True(t, f.IsRecruiter(context.Background(), subject, body, "jane@agency.example.com"))
}

func TestIsRecruiterJunkSenderNeverQualifies(t *testing.T) {
	f := New(newTestRepo(t, defaultRules()...), nil, 2)
	assert.False(t, f.IsRecruiter(context.Background(),
		"Exciting opportunity", "We have a position for you", "noreply@linkedin.com"))
}

func TestIsRecruiterFallbackCounts(t *testing.T) {
	// Weight-based threshold unreachable (threshold 10) so the hit-count
	// fallback decides.
	f := New(newTestRepo(t, defaultRules()...), nil, 10)
	ctx := context.Background()

	// One subject hit is enough.
	assert.True(t, f.IsRecruiter(ctx, "An opportunity", "nothing here", "jane@agency.example.com"))
	// Two body hits are enough.
	assert.True(t, f.IsRecruiter(ctx, "hello", "a position with our staffing team", "jane@agency.example.com"))
	// Zero hits anywhere is not.
	assert.False(t, f.IsRecruiter(ctx, "hello", "nothing here", "jane@agency.example.com"))
}

type stubClassifier struct {
	verdict bool
	err     error
	calls   int
}

func (s *stubClassifier) PredictRecruiter(ctx context.Context, subject, body, from string) (bool, error) {
	s.calls++
	return s.verdict, s.err
}

func TestClassifierSupersedesScoring(t *testing.T) {
	cls := &stubClassifier{verdict: false}
	f := New(newTestRepo(t, defaultRules()...), cls, 2)

	// Scoring would say yes; the model says no and wins.
	assert.False(t, f.IsRecruiter(context.Background(),
		"Exciting opportunity", "We have a position for you", "jane@agency.example.com"))
	assert.Equal(t, 1, cls.calls)
}

func TestClassifierErrorFallsBackToScoring(t *testing.T) {
	cls := &stubClassifier{err: errors.New("model offline")}
	f := New(newTestRepo(t, defaultRules()...), cls, 2)

	assert.True(t, f.IsRecruiter(context.Background(),
		"Exciting opportunity", "We have a position for you", "jane@agency.example.com"))
}
