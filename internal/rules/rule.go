package rules

import (
	"fmt"
	"regexp"
	"strings"
)

type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
	MatchRegex    MatchType = "regex"
)

type Action string

const (
	ActionAllow Action = "allow"
	ActionBlock Action = "block"
)

type Target string

const (
	TargetSubject Target = "subject"
	TargetBody    Target = "body"
	TargetBoth    Target = "both"
)

// Rule is one row from the keyword table. Keywords are kept in load order;
// regex rules carry compiled patterns alongside the raw strings.
type Rule struct {
	Category  string
	MatchType MatchType
	Action    Action
	Priority  int
	Keywords  []string
	Patterns  []*regexp.Regexp // populated for MatchType == regex
	Weight    int
	Target    Target
}

// Compile parses regex keywords. Invalid patterns fail the whole rule so a
// bad row is caught at load time instead of silently never matching.
func (r *Rule) Compile() error {
	if r.MatchType != MatchRegex {
		return nil
	}
	r.Patterns = r.Patterns[:0]
	for _, kw := range r.Keywords {
		re, err := regexp.Compile("(?i)" + kw)
		if err != nil {
			return fmt.Errorf("rule %q: bad pattern %q: %w", r.Category, kw, err)
		}
		r.Patterns = append(r.Patterns, re)
	}
	return nil
}

// MatchesAddress checks a sender address against this rule. Exact rules
// match the full address, the local part, or the domain; contains and regex
// rules run over the full address.
func (r *Rule) MatchesAddress(email string) bool {
	email = strings.ToLower(email)
	local, dom, _ := strings.Cut(email, "@")

	switch r.MatchType {
	case MatchExact:
		for _, kw := range r.Keywords {
			kw = strings.ToLower(kw)
			if email == kw || local == kw || dom == kw {
				return true
			}
		}
	case MatchContains:
		for _, kw := range r.Keywords {
			if strings.Contains(email, strings.ToLower(kw)) {
				return true
			}
		}
	case MatchRegex:
		for _, re := range r.Patterns {
			if re.MatchString(email) {
				return true
			}
		}
	}
	return false
}

// MatchesText reports whether any keyword of this rule occurs in the text.
func (r *Rule) MatchesText(text string) bool {
	text = strings.ToLower(text)
	switch r.MatchType {
	case MatchRegex:
		for _, re := range r.Patterns {
			if re.MatchString(text) {
				return true
			}
		}
	default:
		for _, kw := range r.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

// IsContentCategory reports whether the rule scores content rather than
// classifying senders.
func (r *Rule) IsContentCategory() bool {
	return r.Category == "recruiter_keywords" || r.Category == "anti_recruiter_keywords"
}
