package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "spoadmin"
	tokensFileName = "tokens.json"
)

// FileStore keeps tokens in a JSON file readable only by the current user.
// Used on machines without a keyring daemon (CI, containers).
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns ~/.config/spoadmin/tokens.json
func DefaultFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, tokensFileName), nil
}

func (f *FileStore) SaveToken(key, token string) error {
	tokens, err := f.read()
	if err != nil {
		return err
	}

	tokens[key] = token
	return f.write(tokens)
}

func (f *FileStore) LoadToken(key string) (string, error) {
	tokens, err := f.read()
	if err != nil {
		return "", err
	}

	token, ok := tokens[key]
	if !ok || token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (f *FileStore) DeleteToken(key string) error {
	tokens, err := f.read()
	if err != nil {
		return err
	}

	if _, ok := tokens[key]; !ok {
		return nil
	}

	delete(tokens, key)
	return f.write(tokens)
}

func (f *FileStore) read() (map[string]string, error) {
	tokens := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokens, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	if len(data) == 0 {
		return tokens, nil
	}

	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return tokens, nil
}

func (f *FileStore) write(tokens map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}
