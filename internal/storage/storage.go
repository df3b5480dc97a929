// Package storage keeps portfolio state in named slots of a kv store.
// Every slot holds a single JSON document.
package storage

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/sirupsen/logrus"
)

// Slot keys.
const (
	KeyProjects         = "portfolio_projects_db"
	KeySession          = "portfolio_admin_auth"
	KeyGitCredentials   = "portfolio_git_credentials"
	KeyAdminCredentials = "portfolio_admin_credentials"
)

// KVStore provides simple kv data storage
type KVStore interface {
	ReadKey(key []byte) ([]byte, error)
	UpdateKey(key []byte, data []byte) error
	DeleteKey(key []byte) error
}

type slot[T any] struct {
	store KVStore
	key   string
}

// load returns false if slot is empty. Malformed data results in app.ParseError.
func (s slot[T]) load() (T, bool, error) {
	var v T
	data, err := s.store.ReadKey([]byte(s.key))
	if err != nil {
		return v, false, fmt.Errorf("reading %s: %w", s.key, err)
	}
	if data == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false, app.ParseError{Key: s.key, Err: err}
	}

	return v, true, nil
}

func (s slot[T]) save(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", s.key, err)
	}
	if err := s.store.UpdateKey([]byte(s.key), data); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}

	return nil
}

func (s slot[T]) delete() error {
	if err := s.store.DeleteKey([]byte(s.key)); err != nil {
		return fmt.Errorf("deleting %s: %w", s.key, err)
	}
	return nil
}

// RecordStore keeps the project record list.
type RecordStore struct {
	slot slot[[]app.ProjectRecord]
	seed []app.ProjectRecord
	l    logrus.FieldLogger
}

var _ app.RecordStore = &RecordStore{}

// NewRecordStore creates new RecordStore instance.
// Seed is used, and persisted, when nothing valid is stored.
func NewRecordStore(store KVStore, seed []app.ProjectRecord, l logrus.FieldLogger) *RecordStore {
	return &RecordStore{
		slot: slot[[]app.ProjectRecord]{store: store, key: KeyProjects},
		seed: seed,
		l:    l,
	}
}

// Load returns stored records.
// If slot is empty or malformed, seed list is saved and returned.
func (s *RecordStore) Load() ([]app.ProjectRecord, error) {
	records, ok, err := s.slot.load()
	switch {
	case err != nil && !app.IsParseError(err):
		return nil, err
	case err != nil:
		s.l.Errorf("stored projects are invalid, using seed list: %v", err)
	case ok:
		if records == nil {
			records = []app.ProjectRecord{}
		}
		return records, nil
	}

	seed := copyRecords(s.seed)
	if err := s.Save(seed); err != nil {
		return nil, fmt.Errorf("saving seed list: %w", err)
	}

	return seed, nil
}

// Save overwrites stored records.
func (s *RecordStore) Save(records []app.ProjectRecord) error {
	if records == nil {
		records = []app.ProjectRecord{}
	}
	return s.slot.save(records)
}

// SessionStore keeps the admin session.
type SessionStore struct {
	slot slot[app.Session]
	l    logrus.FieldLogger
}

var _ app.SessionStore = &SessionStore{}

// NewSessionStore creates new SessionStore instance.
func NewSessionStore(store KVStore, l logrus.FieldLogger) *SessionStore {
	return &SessionStore{
		slot: slot[app.Session]{store: store, key: KeySession},
		l:    l,
	}
}

// Load returns stored session. Malformed session is treated as missing.
func (s *SessionStore) Load() (app.Session, bool, error) {
	session, ok, err := s.slot.load()
	if app.IsParseError(err) {
		s.l.Errorf("stored session is invalid: %v", err)
		return app.Session{}, false, nil
	}
	return session, ok, err
}

// Save overwrites stored session.
func (s *SessionStore) Save(session app.Session) error {
	return s.slot.save(session)
}

// Delete removes stored session.
func (s *SessionStore) Delete() error {
	return s.slot.delete()
}

// GitCredentialStore keeps provider usernames and tokens.
type GitCredentialStore struct {
	slot slot[app.GitCredentials]
	l    logrus.FieldLogger
}

var _ app.GitCredentialStore = &GitCredentialStore{}

// NewGitCredentialStore creates new GitCredentialStore instance.
func NewGitCredentialStore(store KVStore, l logrus.FieldLogger) *GitCredentialStore {
	return &GitCredentialStore{
		slot: slot[app.GitCredentials]{store: store, key: KeyGitCredentials},
		l:    l,
	}
}

// Load returns stored credentials, or empty ones.
func (s *GitCredentialStore) Load() (app.GitCredentials, error) {
	creds, _, err := s.slot.load()
	if app.IsParseError(err) {
		s.l.Errorf("stored git credentials are invalid: %v", err)
		return app.GitCredentials{}, nil
	}
	return creds, err
}

// Save overwrites stored credentials.
func (s *GitCredentialStore) Save(creds app.GitCredentials) error {
	return s.slot.save(creds)
}

// AdminCredentialStore keeps admin credentials.
type AdminCredentialStore struct {
	slot slot[app.AdminCredentials]
	l    logrus.FieldLogger
}

var _ app.AdminCredentialStore = &AdminCredentialStore{}

// NewAdminCredentialStore creates new AdminCredentialStore instance.
func NewAdminCredentialStore(store KVStore, l logrus.FieldLogger) *AdminCredentialStore {
	return &AdminCredentialStore{
		slot: slot[app.AdminCredentials]{store: store, key: KeyAdminCredentials},
		l:    l,
	}
}

// Load returns stored credentials. Malformed data is treated as missing.
func (s *AdminCredentialStore) Load() (app.AdminCredentials, bool, error) {
	creds, ok, err := s.slot.load()
	if app.IsParseError(err) {
		s.l.Errorf("stored admin credentials are invalid: %v", err)
		return app.AdminCredentials{}, false, nil
	}
	return creds, ok, err
}

// Save overwrites stored credentials.
func (s *AdminCredentialStore) Save(creds app.AdminCredentials) error {
	return s.slot.save(creds)
}

func copyRecords(records []app.ProjectRecord) []app.ProjectRecord {
	result := make([]app.ProjectRecord, 0, len(records))
	for _, r := range records {
		c := r
		c.Tags = append([]string{}, r.Tags...)
		if r.Stars != nil {
			v := *r.Stars
			c.Stars = &v
		}
		if r.Forks != nil {
			v := *r.Forks
			c.Forks = &v
		}
		result = append(result, c)
	}
	return result
}
