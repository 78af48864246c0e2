package domain

import "strings"

// ExtractedContact is one recruiter contact assembled from a single email.
// All fields are optional except that a contact must carry at least an
// email address or a LinkedIn handle to be worth saving.
type ExtractedContact struct {
	Name            string   `json:"full_name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	LinkedInID      string   `json:"linkedin_id,omitempty"`
	Company         string   `json:"company_name,omitempty"`
	Location        string   `json:"location,omitempty"`
	JobPosition     string   `json:"job_position,omitempty"`
	EmploymentTypes []string `json:"employment_types,omitempty"`

	// SourceEmail is the scanned mailbox this contact came out of.
	SourceEmail      string `json:"source_email,omitempty"`
	ExtractionSource string `json:"extraction_source,omitempty"`
}

// DedupKey is the identity used for first-seen-wins deduplication within a
// run: lowercased email, else lowercased linkedin handle.
func (c ExtractedContact) DedupKey() string {
	if e := strings.ToLower(strings.TrimSpace(c.Email)); e != "" {
		return e
	}
	if l := strings.ToLower(strings.TrimSpace(c.LinkedInID)); l != "" {
		return "li:" + l
	}
	return ""
}

// RunSummary aggregates per-run counters for reporting.
type RunSummary struct {
	StartedAt  string              `json:"started_at"`
	FinishedAt string              `json:"finished_at"`
	Accounts   []AccountRunResult  `json:"accounts"`
	Fetched    int                 `json:"total_emails_fetched"`
	Passed     int                 `json:"total_passed_filters"`
	Extracted  int                 `json:"total_extracted"`
	Duplicates int                 `json:"total_duplicates"`
	Inserted   int                 `json:"contacts_inserted"`
	Skipped    int                 `json:"contacts_skipped"`
	Failed     int                 `json:"accounts_failed"`
	Contacts   []ExtractedContact  `json:"all_found_contacts,omitempty"`
	Errors     map[string]string   `json:"errors,omitempty"`
}

// AccountRunResult is the outcome of scanning one mailbox.
type AccountRunResult struct {
	Account     string      `json:"account"`
	Status      string      `json:"status"` // success | failed
	Error       string      `json:"error,omitempty"`
	Fetched     int         `json:"emails_fetched"`
	FilterStats FilterStats `json:"filter_stats"`
	Extracted   int         `json:"contacts_extracted"`
	Duplicates  int         `json:"duplicates_skipped"`
	LastUID     uint32      `json:"last_uid,omitempty"`
}

// FilterStats counts what the email filter did with a batch.
type FilterStats struct {
	Total        int `json:"total"`
	Passed       int `json:"passed"`
	Junk         int `json:"junk"`
	NotRecruiter int `json:"not_recruiter"`
	Calendar     int `json:"calendar_invites"`
}
