package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionDuration is the maximum age of an admin session.
const SessionDuration = 24 * time.Hour

// SessionStore persists the single admin session.
type SessionStore interface {
	Load() (Session, bool, error)
	Save(session Session) error
	Delete() error
}

// AdminCredentialStore persists admin credentials changed from the dashboard.
type AdminCredentialStore interface {
	Load() (AdminCredentials, bool, error)
	Save(creds AdminCredentials) error
}

// Authenticator implements the admin login.
//
// Credentials are compared as plain text. Saved credentials take precedence over the configured defaults.
type Authenticator struct {
	sessions SessionStore
	admins   AdminCredentialStore
	defaults AdminCredentials
	l        logrus.FieldLogger

	now      func() time.Time
	newToken func() string
}

// NewAuthenticator creates new Authenticator instance.
func NewAuthenticator(
	sessions SessionStore,
	admins AdminCredentialStore,
	defaults AdminCredentials,
	l logrus.FieldLogger,
) *Authenticator {
	return &Authenticator{
		sessions: sessions,
		admins:   admins,
		defaults: defaults,
		l:        l,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// Login checks credentials and starts a new session.
// Returned bool is false for any failure, without telling which part was wrong.
func (a *Authenticator) Login(username string, password string) (Session, bool) {
	if username == "" || password == "" {
		return Session{}, false
	}

	creds := a.credentials()
	if username != creds.Username || password != creds.Password {
		return Session{}, false
	}

	session := Session{
		Authenticated: true,
		Username:      username,
		Timestamp:     a.now().UnixNano() / int64(time.Millisecond),
		Token:         a.newToken(),
	}
	if err := a.sessions.Save(session); err != nil {
		a.l.Errorf("saving session: %v", err)
		return Session{}, false
	}

	return session, true
}

// IsAuthenticated tells if token belongs to a valid session.
// Expired session is removed.
func (a *Authenticator) IsAuthenticated(token string) bool {
	session, ok := a.session()
	if !ok {
		return false
	}

	loggedAt := time.Unix(0, session.Timestamp*int64(time.Millisecond))
	if a.now().Sub(loggedAt) > SessionDuration {
		if err := a.Logout(); err != nil {
			a.l.Errorf("removing expired session: %v", err)
		}
		return false
	}

	return session.Authenticated && token != "" && token == session.Token
}

// Logout removes the session.
func (a *Authenticator) Logout() error {
	return a.sessions.Delete()
}

// CurrentUser returns logged in username, or empty string.
func (a *Authenticator) CurrentUser() string {
	session, ok := a.session()
	if !ok {
		return ""
	}
	return session.Username
}

// UpdateCredentials changes admin credentials.
func (a *Authenticator) UpdateCredentials(username string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return InvalidRequestError("Please enter both username and password")
	}

	return a.admins.Save(AdminCredentials{
		Username: username,
		Password: password,
	})
}

func (a *Authenticator) credentials() AdminCredentials {
	creds, ok, err := a.admins.Load()
	if err != nil {
		a.l.Errorf("loading admin credentials, using defaults: %v", err)
		return a.defaults
	}
	if !ok || creds.Username == "" {
		return a.defaults
	}
	return creds
}

func (a *Authenticator) session() (Session, bool) {
	session, ok, err := a.sessions.Load()
	if err != nil {
		a.l.Errorf("loading session: %v", err)
		return Session{}, false
	}
	return session, ok
}
