package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmploymentTypes(t *testing.T) {
	e := NewEmploymentExtractor(newTestRepo(t, extractionRules()...))

	// Subject and body hits combine, sorted and unique.
	got := e.Types("This is a W2 contract role, also open to w2 candidates", "C2C position")
	assert.Equal(t, []string{"C2C", "CONTRACT", "W2"}, got)

	assert.Nil(t, e.Types("nothing relevant", "hello"))
	assert.Equal(t, "C2C, W2", e.TypesString("corp to corp or w-2", ""))
}

func TestEmploymentTypesBodyPreviewOnly(t *testing.T) {
	e := NewEmploymentExtractor(newTestRepo(t, extractionRules()...))

	// A hit buried past the preview window is not scanned.
	body := strings.Repeat("filler text ", 200) + " open to C2C"
	assert.Nil(t, e.Types(body, "no hits here"))
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "555-123-4567", Phone("call me at 555-123-4567 today"))
	assert.Equal(t, "(408) 555-1234", Phone("office: (408) 555-1234"))
	assert.Equal(t, "+1 650 555 0000", Phone("cell +1 650 555 0000"))
	assert.Equal(t, "", Phone("no number here"))
}

func TestLinkedInID(t *testing.T) {
	assert.Equal(t, "jane-doe-123", LinkedInID("profile: https://www.linkedin.com/in/jane-doe-123/"))
	assert.Equal(t, "johnsmith", LinkedInID("see LinkedIn.com/in/johnsmith for details"))
	assert.Equal(t, "", LinkedInID("no profile link"))
	// Oversized handles are rejected.
	assert.Equal(t, "", LinkedInID("linkedin.com/in/"+strings.Repeat("x", 60)))
}

func TestNameFromHeader(t *testing.T) {
	assert.Equal(t, "Jane Doe", NameFromHeader(`"Jane Doe" <jane@corp.example.com>`))
	assert.Equal(t, "Jane Doe", NameFromHeader(`Jane Doe <jane@corp.example.com>`))
	assert.Equal(t, "", NameFromHeader("jane@corp.example.com"))
	assert.Equal(t, "", NameFromHeader("Jane <jane@corp.example.com>"))
	assert.Equal(t, "", NameFromHeader("Agent 007 <bond@mi6.example.com>"))
	assert.Equal(t, "", NameFromHeader(""))
}
