package extract

import (
	"context"
	"log"
	"strings"

	"mailharvest-engine/internal/domain"
	"mailharvest-engine/internal/rules"
)

// Message is the extractor's view of one filtered email: headers plus the
// decoded bodies. The extractor never touches the wire format.
type Message struct {
	From    string
	Subject string
	Body    string // cleaned plain text
	HTML    string // raw HTML body, may be empty
}

// ContactExtractor runs every field strategy over a message and assembles
// one ExtractedContact. Strategy failures are isolated: a broken source
// contributes nothing and the rest still compete.
type ContactExtractor struct {
	repo       *rules.Repository
	resolver   *Resolver
	domains    *DomainExtractor
	signatures *SignatureExtractor
	ner        *NERExtractor
	employment *EmploymentExtractor
}

func NewContactExtractor(repo *rules.Repository, tagger EntityTagger) *ContactExtractor {
	return &ContactExtractor{
		repo:       repo,
		resolver:   NewResolver(repo),
		domains:    NewDomainExtractor(repo),
		signatures: NewSignatureExtractor(repo),
		ner:        NewNERExtractor(tagger, repo),
		employment: NewEmploymentExtractor(repo),
	}
}

// Resolver exposes the scoring engine so thresholds can be tuned from
// config after construction.
func (ce *ContactExtractor) Resolver() *Resolver { return ce.resolver }

// Extract builds a contact from one message. It always returns a contact;
// the assembler decides whether it is worth keeping.
func (ce *ContactExtractor) Extract(ctx context.Context, msg Message) domain.ExtractedContact {
	senderAddr := extractAddr(msg.From)

	entities, nerErr := ce.ner.Extract(ctx, msg.Body)
	if nerErr != nil {
		log.Printf("[extract] entity model failed, continuing without it: %v", nerErr)
	}

	spanName, spanCompany := ExtractVendorSpan(preferNonEmpty(msg.HTML, msg.Body))

	contact := domain.ExtractedContact{
		Email:            senderAddr,
		Phone:            Phone(msg.Body),
		LinkedInID:       LinkedInID(msg.Body),
		Name:             ce.bestName(msg, spanName, entities.Name),
		Company:          ce.bestCompany(msg.Body, senderAddr, spanCompany, entities),
		Location:         entities.Location,
		JobPosition:      normalizeSubjectTitle(msg.Subject),
		EmploymentTypes:  ce.employment.Types(msg.Body, msg.Subject),
		ExtractionSource: "email",
	}
	return contact
}

// bestCompany gathers company candidates from all sources and resolves
// them to a single winner (or "" when nothing scores high enough).
func (ce *ContactExtractor) bestCompany(body, senderAddr, spanCompany string, entities NamedEntities) string {
	results := ce.companyCandidates(body, senderAddr, spanCompany, entities)

	var candidates []domain.CandidateValue
	for _, r := range results {
		if r.Err != nil {
			log.Printf("[extract] company source %s failed: %v", r.Candidate.Source, r.Err)
			continue
		}
		if r.Found() {
			candidates = append(candidates, r.Candidate)
		}
	}

	best := ce.resolver.Resolve(candidates, body)
	if best == nil {
		return ""
	}
	return best.Value
}

func (ce *ContactExtractor) companyCandidates(body, senderAddr, spanCompany string, entities NamedEntities) []domain.CandidateResult {
	var results []domain.CandidateResult

	if spanCompany != "" {
		results = append(results, domain.CandidateResult{Candidate: domain.CandidateValue{
			Value:  CleanCompanyName(spanCompany, ce.repo),
			Source: domain.SourceSpan,
			Kind:   domain.KindVendor,
		}})
	}

	if senderAddr != "" {
		if company := ce.domains.CompanyFromAddress(senderAddr); company != "" {
			kind := domain.KindVendor
			if _, dom, ok := strings.Cut(senderAddr, "@"); ok && ce.domains.IsATSDomain(dom) {
				kind = domain.KindATS
			}
			results = append(results, domain.CandidateResult{Candidate: domain.CandidateValue{
				Value:  company,
				Source: domain.SourceDomain,
				Kind:   kind,
			}})
		}
	}

	if company := ce.signatures.Company(body); company != "" {
		results = append(results, domain.CandidateResult{Candidate: domain.CandidateValue{
			Value:  company,
			Source: domain.SourceSignature,
			Kind:   domain.KindUnknown,
		}})
	}

	if entities.Company != "" {
		results = append(results, domain.CandidateResult{Candidate: domain.CandidateValue{
			Value:  entities.Company,
			Source: domain.SourceNER,
			Kind:   domain.KindUnknown,
		}})
	}

	return results
}

// bestName picks the person name by source reliability: From header, then
// HTML span pair, then signature block, then the entity model.
func (ce *ContactExtractor) bestName(msg Message, spanName, nerName string) string {
	if name := NameFromHeader(msg.From); name != "" {
		return name
	}
	if spanName != "" {
		return spanName
	}
	if name := ce.signatures.Name(msg.Body); name != "" {
		return name
	}
	return nerName
}

func normalizeSubjectTitle(subject string) string {
	s := strings.TrimSpace(subject)
	for _, p := range []string{"fwd:", "fw:", "re:"} {
		if strings.HasPrefix(strings.ToLower(s), p) {
			s = strings.TrimSpace(s[len(p):])
		}
	}
	if len(s) > 140 {
		s = s[:140]
	}
	return s
}

func preferNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func extractAddr(fromHeader string) string {
	fromHeader = strings.TrimSpace(fromHeader)
	if fromHeader == "" {
		return ""
	}
	if i := strings.Index(fromHeader, "<"); i >= 0 {
		if j := strings.Index(fromHeader[i:], ">"); j > 0 {
			return strings.ToLower(strings.TrimSpace(fromHeader[i+1 : i+j]))
		}
	}
	if strings.Contains(fromHeader, "@") {
		return strings.ToLower(fromHeader)
	}
	return ""
}
