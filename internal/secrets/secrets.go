// Package secrets keeps the remote validator API key in the OS keychain so
// it never lands in the config file.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the engine's secrets in the OS keychain.
	KeyringService = "ghostjob"

	// ValidatorAccount is the keychain account for the remote validator key.
	ValidatorAccount = "ghostjob:validator"

	envValidatorKey = "GHOSTJOB_VALIDATOR_API_KEY"
)

// ValidatorAPIKey looks in the keychain first, then the environment. An
// empty result with nil error means "not configured", which disables the
// remote backend rather than failing startup.
func ValidatorAPIKey() (string, error) {
	pw, err := keyring.Get(KeyringService, ValidatorAccount)
	if err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		// Keychain broken (headless box, locked session). Fall through to env.
		err = nil
	}
	if v := strings.TrimSpace(os.Getenv(envValidatorKey)); v != "" {
		return v, nil
	}
	return "", nil
}

func SetValidatorAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, ValidatorAccount, key)
}

func DeleteValidatorAPIKey() error {
	return keyring.Delete(KeyringService, ValidatorAccount)
}
