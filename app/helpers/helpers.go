package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/Rakhulsr/e-agri/app/utils/sessions"
)

type contextKey string

const ContextKeyIdentity contextKey = "identity"

const maxBodyBytes = 1 << 20

var ErrInvalidBody = errors.New("invalid request body")

func WithIdentity(ctx context.Context, identity *sessions.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// IdentityFrom returns the session identity attached by the identity middleware, or nil for guests.
func IdentityFrom(ctx context.Context) *sessions.Identity {
	identity, _ := ctx.Value(ContextKeyIdentity).(*sessions.Identity)
	return identity
}

// DecodeJSON reads a single JSON object from the request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrInvalidBody
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// ClientIP is the peer address of the connection. Forwarding headers are not trusted.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
