package sessions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*ServerStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewServerStore(NewRedisBackend(client), time.Hour,
		securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	return store, mr
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func requestWith(cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return r
}

func TestServerStore_RoundTrip(t *testing.T) {
	store, mr := newTestStore(t)

	r := requestWith(nil)
	rec := httptest.NewRecorder()
	session, err := store.Get(r, CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !session.IsNew {
		t.Fatal("expected a new session without a cookie")
	}
	session.Values["user_id"] = "u-1"
	if err := session.Save(r, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cookie := sessionCookie(t, rec)
	if strings.Contains(cookie.Value, "u-1") {
		t.Fatal("cookie must not carry session values")
	}
	if !cookie.HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
	if !mr.Exists(keyPrefix + session.ID) {
		t.Fatalf("expected redis key for session %s", session.ID)
	}
	if ttl := mr.TTL(keyPrefix + session.ID); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}

	loaded, err := store.Get(requestWith(cookie), CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.IsNew {
		t.Fatal("expected the stored session")
	}
	if got := loaded.Values["user_id"]; got != "u-1" {
		t.Fatalf("user_id = %v", got)
	}
}

func TestServerStore_TamperedCookieStartsFresh(t *testing.T) {
	store, _ := newTestStore(t)

	cookie := &http.Cookie{Name: CookieName, Value: "not-a-valid-cookie"}
	session, err := store.Get(requestWith(cookie), CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !session.IsNew || len(session.Values) != 0 {
		t.Fatalf("expected fresh session, got %+v", session.Values)
	}
}

func TestServerStore_ExpiredRecordStartsFresh(t *testing.T) {
	store, mr := newTestStore(t)

	r := requestWith(nil)
	rec := httptest.NewRecorder()
	session, _ := store.Get(r, CookieName)
	session.Values["user_id"] = "u-1"
	if err := session.Save(r, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mr.FastForward(2 * time.Hour)

	loaded, err := store.Get(requestWith(sessionCookie(t, rec)), CookieName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !loaded.IsNew {
		t.Fatal("expected a fresh session after the record expired")
	}
}

func TestServerStore_NegativeMaxAgeDeletes(t *testing.T) {
	store, mr := newTestStore(t)

	r := requestWith(nil)
	rec := httptest.NewRecorder()
	session, _ := store.Get(r, CookieName)
	session.Values["user_id"] = "u-1"
	if err := session.Save(r, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	id := session.ID

	r2 := requestWith(sessionCookie(t, rec))
	rec2 := httptest.NewRecorder()
	loaded, _ := store.Get(r2, CookieName)
	loaded.Options.MaxAge = -1
	if err := loaded.Save(r2, rec2); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if mr.Exists(keyPrefix + id) {
		t.Fatal("expected redis record to be deleted")
	}
	if c := sessionCookie(t, rec2); c.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, MaxAge = %d", c.MaxAge)
	}
}

func TestServerStore_RotateIssuesNewID(t *testing.T) {
	store, mr := newTestStore(t)

	r := requestWith(nil)
	rec := httptest.NewRecorder()
	session, _ := store.Get(r, CookieName)
	if err := session.Save(r, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	oldID := session.ID

	if err := store.Rotate(r, session); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	if err := session.Save(r, httptest.NewRecorder()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if session.ID == oldID {
		t.Fatal("expected a new session id")
	}
	if mr.Exists(keyPrefix + oldID) {
		t.Fatal("old session record should be gone")
	}
}

func TestServerStore_BackendFailure(t *testing.T) {
	store, mr := newTestStore(t)

	r := requestWith(nil)
	rec := httptest.NewRecorder()
	session, _ := store.Get(r, CookieName)
	if err := session.Save(r, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mr.SetError("server down")
	if _, err := store.Get(requestWith(sessionCookie(t, rec)), CookieName); err == nil {
		t.Fatal("expected error when redis fails")
	}
}
