package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Account struct {
	Name        string `yaml:"name"`
	IMAPHost    string `yaml:"imap_host"`
	IMAPPort    int    `yaml:"imap_port"`
	Username    string `yaml:"username"`
	Mailbox     string `yaml:"mailbox"`
	PasswordEnv string `yaml:"password_env"` // fallback when keychain has no entry
}

type Config struct {
	App struct {
		DataDir         string `yaml:"data_dir"`
		IntervalSeconds int    `yaml:"interval_seconds"` // 0 means run once and exit
	} `yaml:"app"`

	Mail struct {
		Accounts      []Account `yaml:"accounts"`
		MaxBatch      int       `yaml:"max_batch"`
		MaxAgeMonths  int       `yaml:"max_age_months"`
		MarkProcessed bool      `yaml:"mark_processed"`
	} `yaml:"mail"`

	Filters struct {
		ScoreThreshold  int  `yaml:"score_threshold"`
		AntiKeywordVeto int  `yaml:"anti_keyword_veto"`
		UseClassifier   bool `yaml:"use_classifier"`
	} `yaml:"filters"`

	Classifier struct {
		Model     string `yaml:"model"`
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"classifier"`

	Extraction struct {
		MinCompanyScore         float64 `yaml:"min_company_score"`
		VendorOverrideTolerance float64 `yaml:"vendor_override_tolerance"`
		NERServiceURL           string  `yaml:"ner_service_url"`
	} `yaml:"extraction"`

	CalendarInvites struct {
		Process bool `yaml:"process"`
	} `yaml:"calendar_invites"`

	API struct {
		BaseURL        string  `yaml:"base_url"`
		TokenEnv       string  `yaml:"token_env"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		SyncKeywords   bool    `yaml:"sync_keywords"`
	} `yaml:"api"`

	Report struct {
		Dir      string   `yaml:"dir"`
		SMTPAddr string   `yaml:"smtp_addr"`
		Username string   `yaml:"username"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
	} `yaml:"report"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
