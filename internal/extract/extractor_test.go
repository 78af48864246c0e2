package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTagger struct {
	entities []Entity
	err      error
}

func (s stubTagger) Entities(ctx context.Context, text string) ([]Entity, error) {
	return s.entities, s.err
}

func TestExtractFullMessage(t *testing.T) {
	repo := newTestRepo(t, extractionRules()...)
	ce := NewContactExtractor(repo, stubTagger{entities: []Entity{
		{Text: "Austin, TX", Label: "GPE"},
	}})

	msg := Message{
		From:    "Jane Doe <jane.doe@cyber-coders.com>",
		Subject: "Re: Senior Go Developer - W2 only",
		Body: "Hi,\n\nWe have a W2 role in Austin.\n\n" +
			"Call me at 555-123-4567 or find me at linkedin.com/in/jane-doe.\n\n" +
			"Thanks,\nJane Doe\nSenior Recruiter\nCyber Coders\n",
		HTML: `<div><span>Jane Doe - Cyber Coders</span></div>`,
	}

	c := ce.Extract(context.Background(), msg)

	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "jane.doe@cyber-coders.com", c.Email)
	assert.Equal(t, "Cyber Coders", c.Company)
	assert.Equal(t, "555-123-4567", c.Phone)
	assert.Equal(t, "jane-doe", c.LinkedInID)
	assert.Equal(t, "Austin, TX", c.Location)
	assert.Equal(t, "Senior Go Developer - W2 only", c.JobPosition)
	assert.Equal(t, []string{"W2"}, c.EmploymentTypes)
	assert.Equal(t, "email", c.ExtractionSource)
}

func TestExtractSurvivesTaggerFailure(t *testing.T) {
	repo := newTestRepo(t, extractionRules()...)
	ce := NewContactExtractor(repo, stubTagger{err: errors.New("sidecar down")})

	c := ce.Extract(context.Background(), Message{
		From:    "Jane Doe <jane@cyber-coders.com>",
		Subject: "Opportunity",
		Body:    "short note",
	})

	assert.Equal(t, "jane@cyber-coders.com", c.Email)
	assert.Equal(t, "Cyber Coders", c.Company, "domain source still works without the model")
	assert.Empty(t, c.Location)
}

func TestExtractATSDomainYieldsNoCompany(t *testing.T) {
	repo := newTestRepo(t, extractionRules()...)
	ce := NewContactExtractor(repo, nil)

	c := ce.Extract(context.Background(), Message{
		From:    "Recruiting <noreply-x@acme.greenhouse.io>",
		Subject: "Your application",
		Body:    "plain text with no signature",
	})
	assert.Empty(t, c.Company)
}

func TestNormalizeSubjectTitle(t *testing.T) {
	assert.Equal(t, "Senior Go Developer", normalizeSubjectTitle("Fwd: Re: Senior Go Developer"))
	assert.Equal(t, "Interview", normalizeSubjectTitle("  RE: Interview  "))

	long := strings.Repeat("x", 200)
	assert.Len(t, normalizeSubjectTitle(long), 140)
}
