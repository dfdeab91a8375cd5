// Package client implements the API client used by the terminal frontend:
// an explicit session object, a thin HTTP wrapper over the REST API, and the
// local list projection (filter, search, totals).
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Profile holds the public user fields returned by signup and login.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session carries the bearer token and user profile between invocations. It is
// an explicit object passed to the API client, hydrated from a state file and
// cleared on logout; there is no ambient global auth state.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`

	path string
}

// LoadSession hydrates a session from the state file at path. A missing file
// yields an empty, unauthenticated session bound to the same path.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session state: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return s, nil
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// Save persists the session to its state file, creating parent directories as
// needed. The file is readable by the owner only.
func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

// Clear wipes the in-memory credentials and removes the state file.
func (s *Session) Clear() error {
	s.Token = ""
	s.User = Profile{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session state: %w", err)
	}
	return nil
}
