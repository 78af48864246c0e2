package extract

import (
	"context"
	"strings"

	"mailharvest-engine/internal/rules"
)

// Entity is one span tagged by the entity model.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"` // PERSON | ORG | GPE | LOC
}

// EntityTagger is the external named-entity model. Its internals are a
// black box; errors mean "no candidates from this source".
type EntityTagger interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// NERExtractor filters raw model entities into usable field values.
type NERExtractor struct {
	tagger EntityTagger
	repo   *rules.Repository
}

func NewNERExtractor(tagger EntityTagger, repo *rules.Repository) *NERExtractor {
	return &NERExtractor{tagger: tagger, repo: repo}
}

// NamedEntities are the first acceptable person, org and location found.
type NamedEntities struct {
	Name     string
	Company  string
	Location string
}

// Extract runs the model and keeps the first entity per field that passes
// validation: PERSON must be 2-3 tokens, ORG must not look like a job
// title.
func (n *NERExtractor) Extract(ctx context.Context, text string) (NamedEntities, error) {
	var out NamedEntities
	if n.tagger == nil {
		return out, nil
	}

	ents, err := n.tagger.Entities(ctx, text)
	if err != nil {
		return out, err
	}

	jobTitles := n.repo.Current().KeywordList("job_title_keywords")

	for _, e := range ents {
		val := strings.TrimSpace(e.Text)
		if val == "" {
			continue
		}
		switch e.Label {
		case "PERSON":
			if out.Name != "" {
				continue
			}
			words := strings.Fields(val)
			if len(words) >= 2 && len(words) <= 3 {
				out.Name = val
			}
		case "ORG":
			if out.Company != "" {
				continue
			}
			if !matchesAnyKeyword(val, jobTitles) {
				out.Company = val
			}
		case "GPE", "LOC":
			if out.Location == "" {
				out.Location = val
			}
		}
	}
	return out, nil
}

func matchesAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
