package extract

import (
	"regexp"
	"strings"
)

// Span extraction: recruiter signatures in HTML mail very often render as
// "Name - Company" inside a single tag. Patterns are ordered by observed
// reliability; the first match wins.
var spanPatterns = []*regexp.Regexp{
	// <span>Name - Company</span> (hyphen, en/em dash)
	regexp.MustCompile(`<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*[-–—]\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p|td|th|b|strong)>`),
	// <span>Name | Company</span>
	regexp.MustCompile(`<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*\|\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p|td|th|b|strong)>`),
	// <span>Name, Company</span>
	regexp.MustCompile(`<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*,\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p|td|th|b|strong)>`),
	// <span>Name (Company)</span>
	regexp.MustCompile(`<(?:span|div|p|td|th|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*\(\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*\)\s*</(?:span|div|p|td|th|b|strong)>`),
	// Plain text: Name - Company on its own line
	regexp.MustCompile(`(?m)(?:^|\n)\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*[-–—]\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*(?:$|\n)`),
	// Plain text: Name | Company
	regexp.MustCompile(`(?m)(?:^|\n)\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*\|\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*(?:$|\n)`),
	// <span>Name at Company</span>
	regexp.MustCompile(`<(?:span|div|p)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s+at\s+([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p)>`),
	// Signature style: <b>Name</b><br><span>Company</span>
	regexp.MustCompile(`<(?:span|div|p|b|strong)[^>]*>\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s*</(?:span|div|p|b|strong)>\s*(?:<br\s*/?>|\n)\s*<(?:span|div|p)[^>]*>\s*([A-Z][a-zA-Z0-9\s&.,]+?)\s*</(?:span|div|p)>`),
}

var reStripTags = regexp.MustCompile(`<[^>]+>`)

// ExtractVendorSpan scans HTML or plain text for a name/company pair.
// Either return value may be empty when its half failed validation.
func ExtractVendorSpan(text string) (name, company string) {
	for _, re := range spanPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name = strings.TrimSpace(m[1])
		company = strings.TrimSpace(m[2])

		// Name: 2-4 capitalized words, no digits.
		words := strings.Fields(name)
		if len(words) < 2 || len(words) > 4 || strings.ContainsAny(name, "0123456789") {
			name, company = "", ""
			continue
		}

		company = reStripTags.ReplaceAllString(company, "")
		company = strings.Join(strings.Fields(company), " ")
		company = strings.Trim(company, ".,;: ")

		if validSpanCompany(company) {
			return name, company
		}
		name, company = "", ""
	}
	return "", ""
}

func validSpanCompany(company string) bool {
	if len(company) < 2 || len(company) >= 100 {
		return false
	}
	for _, r := range company {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
