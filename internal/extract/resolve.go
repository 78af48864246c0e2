package extract

import (
	"log"
	"sort"
	"strings"

	"mailharvest-engine/internal/domain"
	"mailharvest-engine/internal/rules"
)

// Source priors: base confidence assigned purely by which extraction
// channel produced the candidate. Empirically tuned, not load-bearing
// logic — adjust here, not in the resolver.
var sourceScores = map[domain.Source]float64{
	domain.SourceSpan:      0.95,
	domain.SourceDomain:    0.90,
	domain.SourceSignature: 0.80,
	domain.SourceBodyIntro: 0.65,
	domain.SourceNER:       0.50,
}

// Additive penalties. They stack.
const (
	penaltyATSDomain   = -0.40
	penaltyClientLang  = -0.50
	penaltyGenericTerm = -0.30
	penaltyTooShort    = -0.20
)

const (
	// DefaultMinScore is the acceptance floor for a candidate.
	DefaultMinScore = 0.70
	// DefaultVendorTolerance is how far below a client-kind winner a
	// vendor-kind candidate may sit and still be promoted.
	DefaultVendorTolerance = 0.15
)

// Resolver scores same-field candidates from all extraction sources and
// picks one winner. Scoring is deterministic and has no state across
// calls; the keyword tables it consults are read-only.
type Resolver struct {
	repo *rules.Repository

	MinScore        float64
	VendorTolerance float64
}

func NewResolver(repo *rules.Repository) *Resolver {
	return &Resolver{
		repo:            repo,
		MinScore:        DefaultMinScore,
		VendorTolerance: DefaultVendorTolerance,
	}
}

// Score computes a candidate's confidence from its source prior plus
// penalties, clamped to [0,1]. The candidate's kind may be reclassified
// (client language detected, ATS marked upstream).
func (rv *Resolver) Score(c *domain.CandidateValue, context string) float64 {
	score, ok := sourceScores[c.Source]
	if !ok {
		score = 0.50
	}

	if c.Kind == domain.KindATS {
		score += penaltyATSDomain
	}
	if rv.containsClientLanguage(context) || rv.containsClientLanguage(c.Value) {
		score += penaltyClientLang
		c.Kind = domain.KindClient
	}
	if rv.containsGenericTerm(c.Value) {
		score += penaltyGenericTerm
	}
	if len(c.Value) < 3 {
		score += penaltyTooShort
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Resolve scores every candidate, drops those below the acceptance floor,
// and returns the best survivor. Candidates are never merged: the same
// value arriving via two sources competes as two entries.
//
// Tie-break: a vendor-kind candidate within VendorTolerance of a
// client-kind winner is promoted. The business wants the staffing vendor
// (who to contact), not the end client named in the job text.
func (rv *Resolver) Resolve(candidates []domain.CandidateValue, context string) *domain.CandidateValue {
	scored := make([]domain.CandidateValue, 0, len(candidates))
	for _, c := range candidates {
		c.Confidence = rv.Score(&c, context)
		scored = append(scored, c)
	}
	return rv.selectBest(scored)
}

// selectBest applies the acceptance floor, ranks by confidence, and runs
// the vendor-over-client override on already-scored candidates.
func (rv *Resolver) selectBest(scored []domain.CandidateValue) *domain.CandidateValue {
	kept := make([]domain.CandidateValue, 0, len(scored))
	for _, c := range scored {
		if c.Confidence >= rv.MinScore {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	best := kept[0]
	if best.Kind == domain.KindClient {
		for _, c := range kept[1:] {
			if c.Kind == domain.KindVendor && c.Confidence >= best.Confidence-rv.VendorTolerance {
				log.Printf("[resolve] preferring vendor %q over client %q (%.2f vs %.2f)",
					c.Value, best.Value, c.Confidence, best.Confidence)
				best = c
				break
			}
		}
	}
	return &best
}

func (rv *Resolver) containsClientLanguage(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range rv.repo.Current().KeywordList("client_language_keywords") {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (rv *Resolver) containsGenericTerm(value string) bool {
	lower := strings.ToLower(value)
	for _, term := range rv.repo.Current().KeywordList("generic_company_terms") {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
