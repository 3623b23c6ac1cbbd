package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mtlprog/reliefsync/internal/domain"
)

type contextKey string

const (
	// ContextKeyPeer is the key for storing the calling peer's address in request context.
	ContextKeyPeer contextKey = "peer"
)

// PeerAuth handles Bearer token authentication for installations syncing with this one.
// Every peer shares the same token.
type PeerAuth struct {
	token string
}

// NewPeerAuth creates a new PeerAuth. An empty token disables the sync endpoints.
func NewPeerAuth(token string) *PeerAuth {
	return &PeerAuth{token: token}
}

// Enabled reports whether a token is configured.
func (m *PeerAuth) Enabled() bool {
	return m.token != ""
}

// Authenticate validates the Bearer token and adds the peer address to request context.
func (m *PeerAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			http.Error(w, "peer sync disabled", http.StatusNotFound)
			return
		}

		// Extract Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		// Parse Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
			slog.Warn("peer presented invalid token", "remote_addr", r.RemoteAddr)
			http.Error(w, domain.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyPeer, r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPeerFromContext retrieves the authenticated peer address from request context.
func GetPeerFromContext(ctx context.Context) (string, error) {
	peer, ok := ctx.Value(ContextKeyPeer).(string)
	if !ok || peer == "" {
		return "", domain.ErrInvalidToken
	}
	return peer, nil
}
