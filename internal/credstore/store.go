// Package credstore is a file-backed credential store keyed by
// (system, username) pairs, with an optional interactive create/update flow.
package credstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/drisen/mylib/internal/prompt"
)

// FileName is the JSON file name for stored credentials, under $HOME.
const FileName = ".credentials.json"

var (
	// ErrNotFound is returned when no credentials match a lookup, or when
	// a lookup without a username is ambiguous.
	ErrNotFound = errors.New("credentials not found")

	// ErrMalformed is returned when the credentials file exists but is not
	// valid JSON of the expected shape.
	ErrMalformed = errors.New("malformed credentials file")
)

// Record is one stored credential: the secret plus any auxiliary string
// fields (extra tokens) found alongside it, which survive a rewrite.
type Record struct {
	Secret string
	Extra  map[string]string
}

// MarshalJSON flattens the record into a single JSON object with a "secret"
// field next to the auxiliary fields.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(r.Extra)+1)
	for k, v := range r.Extra {
		m[k] = v
	}
	m["secret"] = r.Secret
	return json.Marshal(m)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Secret = m["secret"]
	delete(m, "secret")
	r.Extra = nil
	if len(m) > 0 {
		r.Extra = m
	}
	return nil
}

// Repository maps system name to username to credential record. It is the
// full decoded contents of the credentials file.
type Repository map[string]map[string]Record

// Systems returns the system names in sorted order.
func (r Repository) Systems() []string {
	systems := make([]string, 0, len(r))
	for system := range r {
		systems = append(systems, system)
	}
	sort.Strings(systems)
	return systems
}

// Store reads and writes a single credentials file. It performs no locking;
// concurrent writers race and the last writer wins.
type Store struct {
	path   string
	prompt prompt.TextPrompt
}

// DefaultPath returns ~/.credentials.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(homeDir, FileName), nil
}

// New returns a Store over the credentials file at path. The prompt is used
// only by interactive lookups and may be nil otherwise.
func New(path string, p prompt.TextPrompt) *Store {
	return &Store{path: path, prompt: p}
}

// Path returns the credentials file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the credentials file. A missing file reports
// ErrNotFound; unparseable or wrongly-shaped content reports ErrMalformed.
func (s *Store) Load() (Repository, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no credentials file at %s: %w", s.path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	if err := validateRepository(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	var repo Repository
	if err := json.Unmarshal(data, &repo); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	return repo, nil
}

// Save rewrites the credentials file in full. The write goes to a temporary
// file in the same directory which is then renamed over the target, so a
// failed save leaves the prior file intact.
func (s *Store) Save(repo Repository) error {
	data, err := json.MarshalIndent(repo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Credentials looks up the (username, secret) pair for username on system.
// An empty username resolves only when exactly one username is stored for
// the system. When interactive is true, a missing entry triggers a prompt
// for the username and secret instead of an immediate ErrNotFound, and the
// entered pair is written back to the file on confirmation.
func (s *Store) Credentials(system, username string, interactive bool) (string, string, error) {
	if system == "" {
		return "", "", fmt.Errorf("system must not be empty")
	}

	repo, err := s.Load()
	if err != nil {
		if !interactive || !errors.Is(err, ErrNotFound) {
			return "", "", err
		}
		repo = Repository{}
		if err := s.offerCreate(repo); err != nil {
			return "", "", err
		}
	}

	entry := repo[system]
	if len(entry) > 0 {
		if username == "" {
			if len(entry) == 1 {
				for u, rec := range entry {
					return u, rec.Secret, nil
				}
			}
			return "", "", fmt.Errorf("%d usernames stored for %s, specify one: %w",
				len(entry), system, ErrNotFound)
		}
		if rec, ok := entry[username]; ok {
			return username, rec.Secret, nil
		}
	}

	if !interactive {
		if username == "" {
			return "", "", fmt.Errorf("no credentials for %s: %w", system, ErrNotFound)
		}
		return "", "", fmt.Errorf("no credentials for %s on %s: %w", username, system, ErrNotFound)
	}
	return s.enterInteractive(repo, system, username)
}

// offerCreate asks whether to create an empty credentials file, as a hint
// for first-time use. Declining is not an error; the entry prompt that
// follows may still save.
func (s *Store) offerCreate(repo Repository) error {
	if s.prompt == nil {
		return fmt.Errorf("interactive lookup requires a prompt")
	}
	create, err := s.prompt.Confirm(fmt.Sprintf("You do not have %s. Create it?", s.path))
	if err != nil {
		return err
	}
	if create {
		return s.Save(repo)
	}
	return nil
}

// enterInteractive prompts for a new credential pair, stores it in repo, and
// saves the file when the user confirms. The entered pair is returned either
// way, matching the non-persistent answer flow of a declined save.
func (s *Store) enterInteractive(repo Repository, system, username string) (string, string, error) {
	if s.prompt == nil {
		return "", "", fmt.Errorf("interactive lookup requires a prompt")
	}

	user := username
	for user == "" {
		u, err := s.prompt.Ask(fmt.Sprintf("Enter your username for %s", system))
		if err != nil {
			return "", "", err
		}
		user = u
	}

	secret, err := s.prompt.AskSecret(fmt.Sprintf("Enter secret for %s on %s", user, system))
	if err != nil {
		return "", "", err
	}

	entry := repo[system]
	if entry == nil {
		entry = map[string]Record{}
		repo[system] = entry
	}
	entry[user] = Record{Secret: secret}

	save, err := s.prompt.Confirm(fmt.Sprintf("Add these credentials to %s?", s.path))
	if err != nil {
		return "", "", err
	}
	if save {
		if err := s.Save(repo); err != nil {
			return "", "", err
		}
	}
	return user, secret, nil
}

// Set adds or replaces the secret for username on system, creating the file
// if necessary.
func (s *Store) Set(system, username, secret string) error {
	if system == "" || username == "" {
		return fmt.Errorf("system and username must not be empty")
	}

	repo, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		repo = Repository{}
	}

	entry := repo[system]
	if entry == nil {
		entry = map[string]Record{}
		repo[system] = entry
	}
	rec := entry[username]
	rec.Secret = secret
	entry[username] = rec
	return s.Save(repo)
}

// Remove deletes the entry for username on system. An empty username removes
// every entry for the system.
func (s *Store) Remove(system, username string) error {
	if system == "" {
		return fmt.Errorf("system must not be empty")
	}

	repo, err := s.Load()
	if err != nil {
		return err
	}

	entry, ok := repo[system]
	if !ok {
		return fmt.Errorf("no credentials for %s: %w", system, ErrNotFound)
	}
	if username == "" {
		delete(repo, system)
		return s.Save(repo)
	}
	if _, ok := entry[username]; !ok {
		return fmt.Errorf("no credentials for %s on %s: %w", username, system, ErrNotFound)
	}
	delete(entry, username)
	if len(entry) == 0 {
		delete(repo, system)
	}
	return s.Save(repo)
}
