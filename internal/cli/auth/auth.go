package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "spoadmin-cli"

	// TokenKey is the well-known key the access token is stored under
	TokenKey = "token"
)

// ErrNotAuthenticated is returned by LoadToken when no token is stored
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'spoadmin login' first")

// KeyFor returns the storage key of the token for a given server, so that
// logging in to one server does not overwrite the session of another
func KeyFor(serverURL string) string {
	if serverURL == "" {
		return TokenKey
	}
	return fmt.Sprintf("%s@%s", TokenKey, serverURL)
}

// SaveToken persists the token securely in the OS keychain/credential manager
func SaveToken(key, token string) error {
	if err := keyring.Set(service, key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the token from the OS keychain/credential manager
func LoadToken(key string) (string, error) {
	token, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token from the OS keychain/credential manager
func DeleteToken(key string) error {
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
