package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type accountsFile struct {
	Accounts []Account `yaml:"accounts"`
}

// OverlayAccounts merges extra mailboxes from an optional accounts.yml,
// so credentials-bearing account lists can live outside the main config.
func OverlayAccounts(cfg *Config, accountsPath string) error {
	b, err := os.ReadFile(accountsPath)
	if err != nil {
		// Missing accounts file should not kill startup
		return nil
	}

	var af accountsFile
	if err := yaml.Unmarshal(b, &af); err != nil {
		return err
	}

	cfg.Mail.Accounts = append(cfg.Mail.Accounts, af.Accounts...)
	return nil
}
