package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName       = ".civictrack"
	credentialsFileName = "credentials.json"
)

// credentials is the on-disk shape of the persisted token.
type credentials struct {
	Token string `json:"token"`
}

// CredentialStore persists the single access token under a well-known path,
// ~/.civictrack/credentials.json by default. It is the process-wide source
// of truth for the stored credential: written on login, removed on logout.
type CredentialStore struct {
	dir string
}

// NewCredentialStore creates a store rooted at dir. An empty dir selects
// ~/.civictrack.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{dir: dir}
}

// Path returns the credentials file path.
func (s *CredentialStore) Path() (string, error) {
	dir := s.dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("find home directory: %w", err)
		}
		dir = filepath.Join(home, configDirName)
	}
	return filepath.Join(dir, credentialsFileName), nil
}

// Load reads the stored token. A missing or unreadable file yields an empty
// token with no error: absence simply means anonymous.
func (s *CredentialStore) Load() string {
	path, err := s.Path()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.Token
}

// Save writes the token, creating the config directory if needed. The file
// is user-only since it holds a live credential.
func (s *CredentialStore) Save(token string) error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(credentials{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *CredentialStore) Clear() error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
