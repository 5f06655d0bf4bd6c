package auth

import (
	"fmt"
	"strings"
)

// TokenStore defines the interface for token storage operations.
// Implementations are swapped between the OS keyring, a file and memory.
type TokenStore interface {
	SaveToken(key, token string) error
	LoadToken(key string) (string, error)
	DeleteToken(key string) error
}

// KeyringStore implements TokenStore using the OS keyring
type KeyringStore struct{}

var Default TokenStore = &KeyringStore{}

func (k *KeyringStore) SaveToken(key, token string) error {
	return SaveToken(key, token)
}

func (k *KeyringStore) LoadToken(key string) (string, error) {
	return LoadToken(key)
}

func (k *KeyringStore) DeleteToken(key string) error {
	return DeleteToken(key)
}

// NewStore returns the token store for a backend name: "keyring" (default), "file" or "memory"
func NewStore(backend string) (TokenStore, error) {
	switch strings.ToLower(backend) {
	case "", "keyring":
		return Default, nil
	case "file":
		path, err := DefaultFilePath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token store '%s', must be one of: keyring, file, memory", backend)
	}
}
