package server

import (
	"context"
	"net"
	"net/http"

	"github.com/authgate/authgate/internal/auth"
)

type ctxKey string

const ctxAdmin ctxKey = "admin"

// withSession validates the session cookie and marks the request context
// when it carries the admin flag. Invalid or expired tokens are ignored.
func (a *App) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
			if claims, err := auth.ParseSession(a.secret, c.Value); err == nil && claims.Admin {
				r = r.WithContext(context.WithValue(r.Context(), ctxAdmin, true))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isAdminFrom(r *http.Request) bool {
	if v := r.Context().Value(ctxAdmin); v != nil {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// requireAdmin gates a console route. Without an admin session the request
// is redirected to the login page before touching any store.
func (a *App) requireAdmin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdminFrom(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		h(w, r)
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
