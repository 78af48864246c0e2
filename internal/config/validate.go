package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults and returns a normalized copy plus
// everything wrong or suspicious about it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	// ---- Defaults ----

	if out.App.DataDir == "" {
		out.App.DataDir = "data"
	}
	if out.Mail.MaxBatch <= 0 {
		out.Mail.MaxBatch = 500
	}
	if out.Mail.MaxAgeMonths <= 0 {
		out.Mail.MaxAgeMonths = 3
	}
	if out.Filters.ScoreThreshold <= 0 {
		out.Filters.ScoreThreshold = 2
	}
	if out.Filters.AntiKeywordVeto <= 0 {
		out.Filters.AntiKeywordVeto = 4
	}
	if out.Extraction.MinCompanyScore <= 0 {
		out.Extraction.MinCompanyScore = 0.70
	}
	if out.Extraction.VendorOverrideTolerance <= 0 {
		out.Extraction.VendorOverrideTolerance = 0.15
	}
	if out.API.RequestsPerSec <= 0 {
		out.API.RequestsPerSec = 2
	}
	if out.Report.Dir == "" {
		out.Report.Dir = "output/reports"
	}
	for i := range out.Mail.Accounts {
		if out.Mail.Accounts[i].Mailbox == "" {
			out.Mail.Accounts[i].Mailbox = "INBOX"
		}
		if out.Mail.Accounts[i].IMAPPort == 0 {
			out.Mail.Accounts[i].IMAPPort = 993
		}
		if out.Mail.Accounts[i].Name == "" {
			out.Mail.Accounts[i].Name = out.Mail.Accounts[i].Username
		}
	}

	// ---- Validation rules ----

	if len(out.Mail.Accounts) == 0 {
		res.addErr("mail.accounts is empty; nothing to scan")
	}
	seen := map[string]bool{}
	for i, acc := range out.Mail.Accounts {
		if strings.TrimSpace(acc.IMAPHost) == "" {
			res.addErr("mail.accounts[%d].imap_host is required", i)
		}
		if strings.TrimSpace(acc.Username) == "" {
			res.addErr("mail.accounts[%d].username is required", i)
		}
		key := strings.ToLower(acc.Username + "@" + acc.IMAPHost)
		if seen[key] {
			res.addWarn("duplicate account %q; it will be scanned twice", acc.Username)
		}
		seen[key] = true
	}

	if out.Extraction.MinCompanyScore > 1 {
		res.addErr("extraction.min_company_score must be <= 1.0")
	}
	if out.Extraction.VendorOverrideTolerance > 1 {
		res.addErr("extraction.vendor_override_tolerance must be <= 1.0")
	}
	if out.Mail.MaxBatch > 2000 {
		res.addWarn("mail.max_batch is %d; large batches slow IMAP fetches down.", out.Mail.MaxBatch)
	}

	if out.Filters.UseClassifier && strings.TrimSpace(out.Classifier.APIKeyEnv) == "" {
		res.addErr("filters.use_classifier is true but classifier.api_key_env is not set")
	}

	if out.API.BaseURL != "" && !strings.HasPrefix(out.API.BaseURL, "http") {
		res.addErr("api.base_url must start with http:// or https://")
	}
	if out.API.SyncKeywords && out.API.BaseURL == "" {
		res.addErr("api.sync_keywords is true but api.base_url is empty")
	}

	if out.Report.SMTPAddr != "" {
		if out.Report.From == "" {
			res.addErr("report.from is required when report.smtp_addr is set")
		}
		if len(out.Report.To) == 0 {
			res.addErr("report.to is required when report.smtp_addr is set")
		}
	}

	return out, res
}
