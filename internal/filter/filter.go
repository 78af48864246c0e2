package filter

import (
	"context"
	"log"
	"net/mail"
	"regexp"
	"strings"

	"mailharvest-engine/internal/rules"
)

// Classifier is an optional trained recruiter/non-recruiter model. When
// available it supersedes the keyword scoring heuristic entirely.
type Classifier interface {
	// PredictRecruiter returns the model's verdict, or an error when the
	// model is unavailable (caller falls back to scoring).
	PredictRecruiter(ctx context.Context, subject, body, from string) (bool, error)
}

// EmailFilter classifies senders and message content using the loaded rule
// tables plus an optional trained classifier.
type EmailFilter struct {
	repo       *rules.Repository
	classifier Classifier

	// ScoreThreshold is the minimum weighted content score for a message
	// to count as a recruiter message.
	ScoreThreshold int
	// AntiKeywordVeto rejects a message outright once this many
	// anti-recruiter keywords are present, regardless of positive score.
	AntiKeywordVeto int
}

func New(repo *rules.Repository, classifier Classifier, scoreThreshold int) *EmailFilter {
	if scoreThreshold <= 0 {
		scoreThreshold = 2
	}
	return &EmailFilter{
		repo:            repo,
		classifier:      classifier,
		ScoreThreshold:  scoreThreshold,
		AntiKeywordVeto: 4,
	}
}

var (
	reAddr       = regexp.MustCompile(`(?i)([\w.+\-]+@[\w.\-]+)`)
	reHasDigit   = regexp.MustCompile(`\d`)
	reHexToken   = regexp.MustCompile(`^[a-f0-9]{8,}$`)
	reLocalSplit = regexp.MustCompile(`[._\-+]`)
)

// ExtractAddress pulls the bare address out of a free-form From header,
// tolerating "Display Name <addr>", "(addr)" and naked addresses.
// Returns "" for anything unparseable.
func ExtractAddress(fromHeader string) string {
	fromHeader = strings.TrimSpace(fromHeader)
	if fromHeader == "" {
		return ""
	}
	if a, err := mail.ParseAddress(fromHeader); err == nil {
		return strings.ToLower(strings.TrimSpace(a.Address))
	}
	// Headers without angle brackets or with stray parens.
	if m := reAddr.FindString(fromHeader); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// ClassifySender evaluates sender rules in ascending priority order; the
// first matching rule's action wins. Unmatched senders fall through to the
// random-token heuristic. Malformed headers are blocked (fail closed).
func (f *EmailFilter) ClassifySender(fromHeader string) rules.Action {
	email := ExtractAddress(fromHeader)
	if email == "" || !strings.Contains(email, "@") {
		return rules.ActionBlock
	}

	set := f.repo.Current()
	for i := range set.Sender {
		if set.Sender[i].MatchesAddress(email) {
			return set.Sender[i].Action
		}
	}

	// Heuristic fallback: machine-generated local parts look like
	// "a1b2c3d4e5" or long digit-bearing tokens.
	local, _, _ := strings.Cut(email, "@")
	for _, tok := range reLocalSplit.Split(local, -1) {
		if looksLikeRandomToken(tok) {
			return rules.ActionBlock
		}
	}
	return rules.ActionAllow
}

func looksLikeRandomToken(tok string) bool {
	if len(tok) >= 10 && reHasDigit.MatchString(tok) {
		return true
	}
	return reHexToken.MatchString(tok)
}

// IsJunk is ClassifySender collapsed to a bool.
func (f *EmailFilter) IsJunk(fromHeader string) bool {
	return f.ClassifySender(fromHeader) == rules.ActionBlock
}

// ScoreContent accumulates rule weights for every keyword hit in the
// subject and/or body, per each content rule's target.
func (f *EmailFilter) ScoreContent(subject, body string) int {
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)

	score := 0
	set := f.repo.Current()
	for i := range set.Content {
		r := &set.Content[i]
		if r.Category != "recruiter_keywords" {
			continue
		}
		for _, kw := range r.Keywords {
			kw = strings.ToLower(kw)
			hit := false
			if (r.Target == rules.TargetSubject || r.Target == rules.TargetBoth) && strings.Contains(subjectLower, kw) {
				hit = true
			}
			if (r.Target == rules.TargetBody || r.Target == rules.TargetBoth) && strings.Contains(bodyLower, kw) {
				hit = true
			}
			if hit {
				score += r.Weight
			}
		}
	}
	return score
}

// IsRecruiter decides whether a message is recruiter mail. Junk senders
// never qualify. The trained classifier, when present and healthy,
// supersedes the heuristic; any classifier error falls back to scoring.
func (f *EmailFilter) IsRecruiter(ctx context.Context, subject, body, fromHeader string) bool {
	if f.IsJunk(fromHeader) {
		return false
	}

	if f.classifier != nil {
		verdict, err := f.classifier.PredictRecruiter(ctx, subject, body, fromHeader)
		if err == nil {
			return verdict
		}
		log.Printf("[filter] classifier unavailable, falling back to scoring: %v", err)
	}

	return f.classifyWithRules(subject, body)
}

func (f *EmailFilter) classifyWithRules(subject, body string) bool {
	subjectLower := strings.ToLower(subject)
	bodyLower := strings.ToLower(body)
	text := subjectLower + " " + bodyLower
	set := f.repo.Current()

	anti := 0
	for _, kw := range set.KeywordList("anti_recruiter_keywords") {
		if strings.Contains(text, kw) {
			anti++
		}
	}
	if anti >= f.AntiKeywordVeto {
		return false
	}

	if f.ScoreContent(subject, body) >= f.ScoreThreshold {
		return true
	}

	subjectHits, bodyHits := 0, 0
	for _, kw := range set.KeywordList("recruiter_keywords") {
		if strings.Contains(subjectLower, kw) {
			subjectHits++
		}
		if strings.Contains(bodyLower, kw) {
			bodyHits++
		}
	}
	if subjectHits >= 1 {
		return true
	}
	if bodyHits >= 2 {
		return true
	}
	return subjectHits+bodyHits >= 1
}
