package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// TokenFile keeps the session token between teamctl invocations.
type TokenFile struct {
	Path string
}

// Load returns the stored token, or "" when none is stored.
func (f TokenFile) Load() (string, error) {
	if f.Path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save writes token readable only by the owner.
func (f TokenFile) Save(token string) error {
	if f.Path == "" {
		return errors.New("session file path not configured")
	}
	return os.WriteFile(f.Path, []byte(token+"\n"), 0o600)
}

// Clear removes the stored token. A missing file is not an error.
func (f TokenFile) Clear() error {
	if f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
