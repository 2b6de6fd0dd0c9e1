package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	CookieName = "eagri_session"

	userIDSessionKey   = "user_id"
	emailSessionKey    = "email"
	roleSessionKey     = "role"
	fullNameSessionKey = "full_name"
	csrfSessionKey     = "csrf_token"
)

// Identity is what a session remembers about the signed-in user. Role is cached at login.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type Manager struct {
	store *ServerStore
}

func NewManager(store *ServerStore) *Manager {
	return &Manager{store: store}
}

func (m *Manager) session(r *http.Request) (*sessions.Session, error) {
	session, err := m.store.Get(r, CookieName)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// Current returns the identity bound to the request's session, or nil when nobody is signed in.
func (m *Manager) Current(r *http.Request) (*Identity, error) {
	session, err := m.session(r)
	if err != nil {
		return nil, err
	}
	userID, _ := session.Values[userIDSessionKey].(string)
	if userID == "" {
		return nil, nil
	}
	email, _ := session.Values[emailSessionKey].(string)
	role, _ := session.Values[roleSessionKey].(string)
	fullName, _ := session.Values[fullNameSessionKey].(string)
	return &Identity{UserID: userID, Email: email, Role: role, FullName: fullName}, nil
}

// Establish binds identity to a freshly rotated session id and returns that id.
// The CSRF token of the pre-login session is carried over.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, identity Identity) (string, error) {
	session, err := m.session(r)
	if err != nil {
		return "", err
	}

	csrfToken, _ := session.Values[csrfSessionKey].(string)

	if err := m.store.Rotate(r, session); err != nil {
		return "", fmt.Errorf("failed to rotate session: %w", err)
	}

	session.Values = map[interface{}]interface{}{
		userIDSessionKey:   identity.UserID,
		emailSessionKey:    identity.Email,
		roleSessionKey:     identity.Role,
		fullNameSessionKey: identity.FullName,
	}
	if csrfToken != "" {
		session.Values[csrfSessionKey] = csrfToken
	}

	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return session.ID, nil
}

// Destroy removes the session record and expires the cookie. Calling it without a session is fine.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	session, err := m.session(r)
	if err != nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// CSRFToken returns the session's anti-forgery token, creating the session and token on first use.
func (m *Manager) CSRFToken(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := m.session(r)
	if err != nil {
		return "", err
	}

	if token, ok := session.Values[csrfSessionKey].(string); ok && token != "" {
		return token, nil
	}

	token, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	session.Values[csrfSessionKey] = token
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// StoredCSRFToken returns the token bound to the request's session, or "" when there is none.
func (m *Manager) StoredCSRFToken(r *http.Request) (string, error) {
	session, err := m.session(r)
	if err != nil {
		return "", err
	}
	token, _ := session.Values[csrfSessionKey].(string)
	return token, nil
}

func newCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
