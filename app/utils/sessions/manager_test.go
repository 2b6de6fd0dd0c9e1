package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestManager_EstablishAndCurrent(t *testing.T) {
	store, mr := newTestStore(t)
	m := NewManager(store)

	// Anonymous session created by the CSRF endpoint.
	rec := httptest.NewRecorder()
	token, err := m.CSRFToken(rec, requestWith(nil))
	if err != nil {
		t.Fatalf("CSRFToken() error = %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64", len(token))
	}
	anonymous := sessionCookie(t, rec)

	identity, err := m.Current(requestWith(anonymous))
	if err != nil || identity != nil {
		t.Fatalf("Current() = %v, %v; want nil, nil", identity, err)
	}

	rec = httptest.NewRecorder()
	id, err := m.Establish(rec, requestWith(anonymous), Identity{
		UserID:   "u-1",
		Email:    "farmer@example.com",
		Role:     "farmer",
		FullName: "Ravi Kumar",
	})
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	if !mr.Exists(keyPrefix + id) {
		t.Fatalf("expected redis record for %s", id)
	}
	signedIn := sessionCookie(t, rec)
	if signedIn.Value == anonymous.Value {
		t.Fatal("expected the session id to rotate on login")
	}

	identity, err = m.Current(requestWith(signedIn))
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if identity == nil || identity.UserID != "u-1" || identity.Role != "farmer" || identity.FullName != "Ravi Kumar" {
		t.Fatalf("Current() = %+v", identity)
	}

	stored, err := m.StoredCSRFToken(requestWith(signedIn))
	if err != nil {
		t.Fatalf("StoredCSRFToken() error = %v", err)
	}
	if stored != token {
		t.Fatal("csrf token should survive login")
	}

	if identity, _ := m.Current(requestWith(anonymous)); identity != nil {
		t.Fatal("pre-login cookie must not resolve to the signed-in identity")
	}
}

func TestManager_CSRFTokenIsStable(t *testing.T) {
	store, _ := newTestStore(t)
	m := NewManager(store)

	rec := httptest.NewRecorder()
	first, err := m.CSRFToken(rec, requestWith(nil))
	if err != nil {
		t.Fatalf("CSRFToken() error = %v", err)
	}

	second, err := m.CSRFToken(httptest.NewRecorder(), requestWith(sessionCookie(t, rec)))
	if err != nil {
		t.Fatalf("CSRFToken() error = %v", err)
	}
	if first != second {
		t.Fatalf("token changed: %s != %s", first, second)
	}
}

func TestManager_Destroy(t *testing.T) {
	store, mr := newTestStore(t)
	m := NewManager(store)

	rec := httptest.NewRecorder()
	id, err := m.Establish(rec, requestWith(nil), Identity{UserID: "u-1", Role: "dealer"})
	if err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	cookie := sessionCookie(t, rec)

	rec = httptest.NewRecorder()
	if err := m.Destroy(rec, requestWith(cookie)); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if mr.Exists(keyPrefix + id) {
		t.Fatal("session record should be deleted")
	}
	if identity, _ := m.Current(requestWith(cookie)); identity != nil {
		t.Fatal("old cookie must not resolve after logout")
	}

	if err := m.Destroy(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil)); err != nil {
		t.Fatalf("Destroy() without session error = %v", err)
	}
}
