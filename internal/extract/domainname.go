package extract

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"mailharvest-engine/internal/rules"
)

// DomainExtractor derives a company name from the sender's email domain.
// jobs.cyber-coders.com -> "Cyber Coders"; ATS platforms and generic
// mail providers yield nothing.
type DomainExtractor struct {
	repo *rules.Repository
}

func NewDomainExtractor(repo *rules.Repository) *DomainExtractor {
	return &DomainExtractor{repo: repo}
}

// IsATSDomain reports whether the domain belongs to a known ATS platform
// (blocked_ats_domain / ats_domains categories).
func (d *DomainExtractor) IsATSDomain(domainName string) bool {
	domainName = strings.ToLower(domainName)
	set := d.repo.Current()
	for _, category := range []string{"blocked_ats_domain", "ats_domains"} {
		for _, ats := range set.KeywordList(category) {
			if strings.Contains(domainName, ats) {
				return true
			}
		}
	}
	return false
}

// CompanyFromAddress extracts a company name from an email address's
// registrable-root label. Returns "" when the domain is an ATS platform,
// a generic/personal provider (per blocked domain rules), or unparseable.
func (d *DomainExtractor) CompanyFromAddress(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	_, fullDomain, ok := strings.Cut(email, "@")
	if !ok || fullDomain == "" {
		return ""
	}

	if d.IsATSDomain(fullDomain) {
		return ""
	}
	// Personal/generic providers are block rules on the domain families.
	set := d.repo.Current()
	for i := range set.Sender {
		r := &set.Sender[i]
		if strings.Contains(r.Category, "domain") && r.Action == rules.ActionBlock && r.MatchesAddress(email) {
			return ""
		}
	}

	root := registrableRoot(fullDomain)
	if root == "" {
		return ""
	}

	// De-hyphenate and title-case each word.
	root = strings.ReplaceAll(root, "-", " ")
	root = strings.ReplaceAll(root, "_", " ")
	words := strings.Fields(root)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return CleanCompanyName(strings.Join(words, " "), d.repo)
}

// registrableRoot returns the label left of the public suffix, ignoring
// subdomains: "jobs.accenture.com" -> "accenture".
func registrableRoot(fullDomain string) string {
	etld1, err := publicsuffix.EffectiveTLDPlusOne(fullDomain)
	if err != nil {
		// Unlisted or malformed; fall back to the second-to-last label.
		parts := strings.Split(fullDomain, ".")
		if len(parts) < 2 {
			return ""
		}
		return parts[len(parts)-2]
	}
	root, _, _ := strings.Cut(etld1, ".")
	return root
}

// CleanCompanyName normalizes whitespace, strips trailing punctuation and
// standardizes suffixes via the company_suffix_mapping table.
func CleanCompanyName(company string, repo *rules.Repository) string {
	company = strings.Join(strings.Fields(company), " ")
	company = strings.TrimRight(company, ",;: ")
	if company == "" {
		return company
	}

	lower := strings.ToLower(company)
	for old, repl := range repo.Current().SuffixMappings() {
		if strings.HasSuffix(lower, old) {
			company = company[:len(company)-len(old)] + repl
			break
		}
	}
	return company
}
