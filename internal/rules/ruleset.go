package rules

import (
	"log"
	"regexp"
	"sort"
	"strings"
)

// Ruleset is the immutable, priority-sorted view of all loaded rules.
// Sender rules and content rules are split the way the filter consumes
// them; everything is read-only after construction.
type Ruleset struct {
	Sender  []Rule // allow/block rules, ascending priority
	Content []Rule // recruiter_keywords / anti_recruiter_keywords

	lists map[string][]string // category -> keywords, every rule included
}

// NewRuleset sorts, compiles and indexes a flat rule slice. Rules that fail
// to compile are dropped with a log line rather than poisoning the set.
func NewRuleset(all []Rule) *Ruleset {
	rs := &Ruleset{lists: make(map[string][]string)}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Priority < all[j].Priority })

	for i := range all {
		r := all[i]
		if err := r.Compile(); err != nil {
			log.Printf("[rules] dropping rule: %v", err)
			continue
		}
		if r.Target == "" {
			r.Target = TargetBoth
		}
		if r.Weight == 0 {
			r.Weight = 1
		}
		if r.IsContentCategory() {
			rs.Content = append(rs.Content, r)
		} else {
			rs.Sender = append(rs.Sender, r)
		}
		rs.lists[r.Category] = append(rs.lists[r.Category], r.Keywords...)
	}
	return rs
}

// KeywordList returns the keywords of a category, lowercased. A missing
// category yields nil: domain lists default to empty (permissive) and
// block lists default to nothing blocked.
func (rs *Ruleset) KeywordList(category string) []string {
	kws := rs.lists[category]
	if kws == nil {
		return nil
	}
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// HasCategory reports whether any rule contributed to the category.
func (rs *Ruleset) HasCategory(category string) bool {
	_, ok := rs.lists[category]
	return ok
}

// SuffixMappings parses company_suffix_mapping entries of the form
// "old|new" into a replacement table.
func (rs *Ruleset) SuffixMappings() map[string]string {
	out := make(map[string]string)
	for _, entry := range rs.KeywordList("company_suffix_mapping") {
		old, repl, ok := strings.Cut(entry, "|")
		if !ok {
			continue
		}
		old = strings.TrimSpace(old)
		repl = strings.TrimSpace(repl)
		if old != "" {
			out[old] = repl
		}
	}
	return out
}

// EmploymentPattern is one normalized employment type with its detection
// patterns, parsed from "TYPE|re1;re2" entries.
type EmploymentPattern struct {
	Type     string
	Patterns []*regexp.Regexp
}

// EmploymentPatterns parses the employment_patterns category. Entries with
// unparseable regexes are skipped with a log line.
func (rs *Ruleset) EmploymentPatterns() []EmploymentPattern {
	var out []EmploymentPattern
	for _, entry := range rs.lists["employment_patterns"] {
		typ, raw, ok := strings.Cut(entry, "|")
		if !ok {
			continue
		}
		typ = strings.TrimSpace(typ)
		var pats []*regexp.Regexp
		for _, expr := range strings.Split(raw, ";") {
			expr = strings.TrimSpace(expr)
			if expr == "" {
				continue
			}
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				log.Printf("[rules] employment pattern %q for %s: %v", expr, typ, err)
				continue
			}
			pats = append(pats, re)
		}
		if typ != "" && len(pats) > 0 {
			out = append(out, EmploymentPattern{Type: typ, Patterns: pats})
		}
	}
	return out
}
