package assemble

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailharvest-engine/internal/domain"
)

func TestValid(t *testing.T) {
	cases := []struct {
		name    string
		contact domain.ExtractedContact
		want    bool
	}{
		{"email only", domain.ExtractedContact{Email: "jane@corp.example.com"}, true},
		{"linkedin only", domain.ExtractedContact{LinkedInID: "jane-doe"}, true},
		{"neither", domain.ExtractedContact{Name: "Jane Doe", Company: "Acme"}, false},
		{"noreply", domain.ExtractedContact{Email: "noreply@corp.example.com"}, false},
		{"no-reply", domain.ExtractedContact{Email: "no-reply@corp.example.com"}, false},
		{"role address", domain.ExtractedContact{Email: "info@corp.example.com"}, false},
		{"support address", domain.ExtractedContact{Email: "support@corp.example.com"}, false},
		{"not an email", domain.ExtractedContact{Email: "janecorp"}, false},
		{"linkedin with space", domain.ExtractedContact{LinkedInID: "jane doe"}, false},
		{"one-word name", domain.ExtractedContact{Email: "jane@corp.example.com", Name: "Jane"}, false},
		{"digit name", domain.ExtractedContact{Email: "jane@corp.example.com", Name: "Jane 2 Doe"}, false},
		{"normal name", domain.ExtractedContact{Email: "jane@corp.example.com", Name: "Jane Doe"}, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Valid(tc.contact), tc.name)
	}
}

func TestAddFirstSeenWins(t *testing.T) {
	a := New()

	first := domain.ExtractedContact{Email: "jane@corp.example.com", Company: "Acme"}
	second := domain.ExtractedContact{Email: "JANE@corp.example.com", Company: "Other Co"}

	assert.True(t, a.Add(first))
	assert.False(t, a.Add(second), "case-insensitive dup must be dropped")

	contacts := a.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "Acme", contacts[0].Company)

	dups, rejected := a.Stats()
	assert.Equal(t, 1, dups)
	assert.Equal(t, 0, rejected)
}

func TestAddDedupsOnLinkedInWhenNoEmail(t *testing.T) {
	a := New()

	assert.True(t, a.Add(domain.ExtractedContact{LinkedInID: "jane-doe"}))
	assert.False(t, a.Add(domain.ExtractedContact{LinkedInID: "Jane-Doe"}))
	// Same handle as an email address is a different identity.
	assert.True(t, a.Add(domain.ExtractedContact{Email: "jane-doe@corp.example.com"}))
}

func TestKnownEmailsPreseed(t *testing.T) {
	a := New()
	a.KnownEmails([]string{"Jane@corp.example.com", "  ", "old@corp.example.com"})

	assert.False(t, a.Add(domain.ExtractedContact{Email: "jane@corp.example.com"}))
	assert.True(t, a.Add(domain.ExtractedContact{Email: "new@corp.example.com"}))
}

func TestAddRejectedCounts(t *testing.T) {
	a := New()
	assert.False(t, a.Add(domain.ExtractedContact{Name: "No Contact Info"}))
	_, rejected := a.Stats()
	assert.Equal(t, 1, rejected)
	assert.Empty(t, a.Contacts())
}

func TestConcurrentAdd(t *testing.T) {
	a := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// All goroutines race on the same identity.
			a.Add(domain.ExtractedContact{Email: "same@corp.example.com"})
		}()
	}
	wg.Wait()
	assert.Len(t, a.Contacts(), 1)
}
