// Package assemble collects extracted contacts across a run, applying the
// validity gate and first-seen-wins deduplication.
package assemble

import (
	"strings"
	"sync"

	"mailharvest-engine/internal/domain"
)

// Assembler accumulates contacts for one run. Safe for concurrent Add
// calls when accounts are scanned in parallel; the dedup map is
// append-only.
type Assembler struct {
	mu       sync.Mutex
	seen     map[string]bool
	contacts []domain.ExtractedContact

	duplicates int
	rejected   int
}

func New() *Assembler {
	return &Assembler{seen: make(map[string]bool)}
}

// KnownEmails pre-seeds the dedup set with addresses already persisted,
// so re-fetched mail doesn't resubmit old contacts.
func (a *Assembler) KnownEmails(emails []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			a.seen[e] = true
		}
	}
}

// Add applies the validity gate and dedup. Returns true when the contact
// was kept.
func (a *Assembler) Add(c domain.ExtractedContact) bool {
	if !Valid(c) {
		a.mu.Lock()
		a.rejected++
		a.mu.Unlock()
		return false
	}

	key := c.DedupKey()
	a.mu.Lock()
	defer a.mu.Unlock()
	if key == "" || a.seen[key] {
		a.duplicates++
		return false
	}
	a.seen[key] = true
	a.contacts = append(a.contacts, c)
	return true
}

// Contacts returns the kept contacts in insertion order.
func (a *Assembler) Contacts() []domain.ExtractedContact {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ExtractedContact, len(a.contacts))
	copy(out, a.contacts)
	return out
}

// Stats returns (duplicates skipped, invalid rejected).
func (a *Assembler) Stats() (duplicates, rejected int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duplicates, a.rejected
}

// Valid is the contact quality gate: an email or a LinkedIn handle is
// required, role addresses are rejected, and names must look like real
// person names.
func Valid(c domain.ExtractedContact) bool {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	linkedin := strings.TrimSpace(c.LinkedInID)

	if email == "" && linkedin == "" {
		return false
	}

	if email != "" {
		if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
			return false
		}
		for _, role := range []string{"noreply", "no-reply", "info@", "support@", "admin@"} {
			if strings.Contains(email, role) {
				return false
			}
		}
	}

	if linkedin != "" {
		if strings.Contains(linkedin, " ") || len(linkedin) > 50 {
			return false
		}
	}

	if name := strings.TrimSpace(c.Name); name != "" {
		words := strings.Fields(name)
		if len(words) < 2 || len(words) > 6 {
			return false
		}
		if strings.ContainsAny(name, "0123456789") {
			return false
		}
	}

	return true
}
