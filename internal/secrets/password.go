package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app's secrets in the OS keychain.
	KeyringService = "mailharvest"
)

// GetIMAPPassword resolves a mailbox password: keychain first, then an
// optional env var for headless boxes without a keyring daemon.
func GetIMAPPassword(keyringAccount, envVar string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	if envVar != "" {
		if pw := strings.TrimSpace(os.Getenv(envVar)); pw != "" {
			return pw, nil
		}
	}
	return "", errors.New("IMAP password not found (set it in keychain or via env)")
}

func SetIMAPPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteIMAPPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// IMAPKeyringAccount names the keychain entry for one mailbox.
func IMAPKeyringAccount(username, host string) string {
	return fmt.Sprintf("mailharvest:imap:%s@%s", username, host)
}
