package middlewares

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
	"github.com/unrolled/render"
)

// Identity attaches the session identity, if any, to the request context.
func Identity(manager *sessions.Manager, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := manager.Current(r)
			if err != nil {
				log.Printf("Identity: failed to load session on %s: %v", r.URL.Path, err)
				helpers.RespondError(rnd, w, r, helpers.NewStorageUnavailable(err))
				return
			}
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(helpers.WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireSession answers 401 with message when the request carries no signed-in identity.
func RequireSession(rnd *render.Render, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if helpers.IdentityFrom(r.Context()) == nil {
				helpers.Fail(rnd, w, http.StatusUnauthorized, message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 403 unless the session role is one of roles. Use after RequireSession.
func RequireRole(rnd *render.Render, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := helpers.IdentityFrom(r.Context())
			if identity == nil {
				helpers.Fail(rnd, w, http.StatusUnauthorized, "Unauthorized access", nil)
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Printf("RequireRole: user %s with role %s denied %s %s", identity.UserID, identity.Role, r.Method, r.URL.Path)
			helpers.Fail(rnd, w, http.StatusForbidden, "You do not have permission to perform this action", nil)
		})
	}
}
