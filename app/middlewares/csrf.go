package middlewares

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
	"github.com/unrolled/render"
)

const (
	csrfHeaderName = "X-CSRF-Token"
	csrfBodyField  = "csrf_token"

	maxCSRFBodyBytes = 1 << 20

	InvalidCSRFMessage = "Invalid security token. Please refresh and try again."
)

// CSRF rejects state-changing requests whose token does not match the one bound to the session.
// The token is read from the X-CSRF-Token header, or from the csrf_token field of a JSON body.
func CSRF(manager *sessions.Manager, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(csrfHeaderName)
			if submitted == "" {
				token, err := tokenFromBody(r)
				if err != nil {
					log.Printf("CSRF: failed to read body on %s: %v", r.URL.Path, err)
				}
				submitted = token
			}

			stored, err := manager.StoredCSRFToken(r)
			if err != nil {
				helpers.RespondError(rnd, w, r, helpers.NewStorageUnavailable(err))
				return
			}

			if submitted == "" || stored == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) != 1 {
				helpers.Fail(rnd, w, http.StatusForbidden, InvalidCSRFMessage, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromBody peeks at a JSON body for csrf_token and restores the body for the handler.
func tokenFromBody(r *http.Request) (string, error) {
	if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCSRFBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var payload struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}
	return payload.CSRFToken, nil
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}
