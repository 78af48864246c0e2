package extract

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	rePhone = regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
	// linkedin.com/in/<handle>; handles are letters, digits and dashes.
	reLinkedIn = regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9\-_%]+)`)
)

// Phone returns the first US-shaped phone number in the text.
func Phone(text string) string {
	return strings.TrimSpace(rePhone.FindString(text))
}

// LinkedInID returns the profile handle from the first linkedin.com/in/
// URL in the text, stripped of trailing URL junk.
func LinkedInID(text string) string {
	m := reLinkedIn.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	id := strings.Trim(m[1], "/-_")
	if id == "" || len(id) > 50 {
		return ""
	}
	return id
}

// NameFromHeader extracts a display name from a From header. Rejects bare
// addresses, digit-bearing names, and anything outside 2-4 words.
func NameFromHeader(fromHeader string) string {
	fromHeader = strings.TrimSpace(fromHeader)
	if fromHeader == "" {
		return ""
	}

	var name string
	if a, err := mail.ParseAddress(fromHeader); err == nil {
		name = a.Name
	} else if i := strings.Index(fromHeader, "<"); i > 0 {
		name = fromHeader[:i]
	}

	name = strings.Trim(name, `"' `)
	if name == "" || strings.Contains(name, "@") {
		return ""
	}
	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return ""
	}
	if strings.ContainsAny(name, "0123456789") {
		return ""
	}
	return strings.TrimSpace(name)
}
