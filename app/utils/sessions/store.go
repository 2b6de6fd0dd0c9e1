package sessions

import (
	"encoding/base32"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// ServerStore is a gorilla sessions.Store that keeps values in a Backend.
// The cookie only carries the signed and encrypted session id.
type ServerStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	backend    Backend
	serializer securecookie.GobEncoder
}

func NewServerStore(backend Backend, maxAge time.Duration, keyPairs ...[]byte) *ServerStore {
	s := &ServerStore{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		backend: backend,
	}
	s.MaxAge(int(maxAge / time.Second))
	return s
}

// MaxAge sets the cookie lifetime and the codec expiry; the backend TTL follows it on save.
func (s *ServerStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func (s *ServerStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or expired cookie
// yields a fresh session; only backend failures are returned as errors.
func (s *ServerStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}

	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.Codecs...); err != nil {
		log.Printf("ServerStore.New: discarding undecodable session cookie: %v", err)
		return session, nil
	}

	data, err := s.backend.Load(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return session, nil
	}
	if err != nil {
		return session, err
	}

	if err := s.serializer.Deserialize(data, &session.Values); err != nil {
		log.Printf("ServerStore.New: discarding corrupt session %s: %v", id, err)
		return session, nil
	}

	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session and refreshes the cookie. MaxAge < 0 deletes the server record and expires the cookie.
func (s *ServerStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}

	data, err := s.serializer.Serialize(session.Values)
	if err != nil {
		return err
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.backend.Store(r.Context(), session.ID, data, ttl); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Rotate drops the server record behind session so the next Save issues a new id.
func (s *ServerStore) Rotate(r *http.Request, session *sessions.Session) error {
	if session.ID == "" {
		return nil
	}
	if err := s.backend.Delete(r.Context(), session.ID); err != nil {
		return err
	}
	session.ID = ""
	return nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}
