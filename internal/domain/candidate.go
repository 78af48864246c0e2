package domain

// Source identifies which extraction strategy produced a candidate value.
type Source string

const (
	SourceSpan      Source = "span"
	SourceDomain    Source = "domain"
	SourceSignature Source = "signature"
	SourceBodyIntro Source = "body_intro"
	SourceNER       Source = "ner"
)

// Kind is the semantic classification of a candidate value. It starts out
// as whatever the extractor guessed and may be reclassified during scoring
// (e.g. client language detected in the surrounding context).
type Kind string

const (
	KindVendor  Kind = "vendor"
	KindClient  Kind = "client"
	KindATS     Kind = "ats"
	KindUnknown Kind = "unknown"
)

// CandidateValue is one proposed value for a semantic field (company name,
// person name, ...) from a single extraction source.
//
// Confidence is always computed by the resolver from (source, kind, value,
// context); extractors leave it zero.
type CandidateValue struct {
	Value      string
	Source     Source
	Kind       Kind
	Confidence float64
}

// CandidateResult is the outcome of running one extraction strategy.
// A strategy that found nothing returns a zero Candidate and nil Err;
// a strategy that blew up returns Err so the caller can log it without
// aborting the message.
type CandidateResult struct {
	Candidate CandidateValue
	Err       error
}

func (r CandidateResult) Found() bool {
	return r.Err == nil && r.Candidate.Value != ""
}
