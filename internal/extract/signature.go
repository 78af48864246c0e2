package extract

import (
	"regexp"
	"strings"

	"mailharvest-engine/internal/rules"
)

// SignatureExtractor pulls names and company lines out of the signature
// block at the bottom of a message:
//
//	Thanks,
//	John Smith
//	Senior Recruiter
//	TechCorp Inc.
type SignatureExtractor struct {
	repo *rules.Repository
}

func NewSignatureExtractor(repo *rules.Repository) *SignatureExtractor {
	return &SignatureExtractor{repo: repo}
}

var signatureNamePatterns = []*regexp.Regexp{
	// After a sign-off, name on the next line.
	regexp.MustCompile(`(?m)(?:Thanks|Regards|Best|Sincerely|Warm regards|Kind regards|Cheers),?\s*[\r\n]+\s*([A-Z][a-z]+(?:[\s-][A-Z][a-z]+){1,2})\s*[\r\n]`),
	// Name directly above a title line.
	regexp.MustCompile(`(?m)([A-Z][a-z]+(?:[\s-][A-Z][a-z]+){1,2})\s*[\r\n]+(?:Senior|Lead|Director|Manager|Recruiter|VP|President)`),
	// Name directly above a phone/email line.
	regexp.MustCompile(`(?m)([A-Z][a-z]+(?:[\s-][A-Z][a-z]+){1,2})\s*[\r\n]+(?:Phone|Mobile|Email|Tel):`),
	// Sign-off without a trailing newline requirement.
	regexp.MustCompile(`(?m)(?:Thanks|Regards|Best|Sincerely),?\s*[\r\n]+\s*([A-Z][a-z]+(?:[\s][A-Z][a-z]+){1,2})`),
}

// Name finds a person name in signature position: 2-3 words, no digits.
func (s *SignatureExtractor) Name(text string) string {
	for _, re := range signatureNamePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		words := strings.Fields(name)
		if len(words) >= 2 && len(words) <= 3 && !strings.ContainsAny(name, "0123456789") {
			return name
		}
	}
	return ""
}

// Company scans for a line that looks like a job title and takes the next
// line when it has a company-name shape.
func (s *SignatureExtractor) Company(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !s.IsJobTitle(strings.TrimSpace(line)) || i+1 >= len(lines) {
			continue
		}
		company := strings.TrimSpace(lines[i+1])
		if s.validCompanyLine(company) {
			return CleanCompanyName(company, s.repo)
		}
	}
	return ""
}

// IsJobTitle reports whether text contains any job_title_keywords entry.
func (s *SignatureExtractor) IsJobTitle(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range s.repo.Current().KeywordList("job_title_keywords") {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (s *SignatureExtractor) validCompanyLine(text string) bool {
	if len(text) < 2 || len(text) > 100 {
		return false
	}
	first := rune(text[0])
	if !(first >= 'A' && first <= 'Z') && !(first >= '0' && first <= '9') {
		return false
	}
	if s.IsJobTitle(text) {
		return false
	}
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
