package auth

import (
	"net/http"
	"strings"
)

// Middleware validates bearer JWTs. With an empty secret the middleware is a
// pass-through, so the tool also runs unauthenticated.
type Middleware struct {
	secret []byte
	exempt []string
}

// NewMiddleware constructs an auth middleware with exempt path prefixes.
func NewMiddleware(secret []byte, exempt []string) *Middleware {
	return &Middleware{secret: secret, exempt: exempt}
}

// Wrap applies auth to the handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil || len(m.secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range m.exempt {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		claims, err := ParseJWT(extractBearer(r), m.secret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), claims.Subject)))
	})
}

func extractBearer(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
