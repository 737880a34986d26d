package authentication

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"playlist-courses-backend/controllers/respond"
	"playlist-courses-backend/models/users"
	"playlist-courses-backend/services"
)

// SessionHeader carries an internally issued session id.
const SessionHeader = "X-Session-ID"

// Strategy resolves one kind of credential to a user.
type Strategy interface {
	Resolve(ctx context.Context, credential string) (*users.User, error)
}

// Gate authenticates requests. A session id header is checked with Sessions,
// a bearer token with Tokens. Either strategy may be nil, in which case that
// credential kind is rejected.
type Gate struct {
	Sessions Strategy
	Tokens   Strategy
}

type contextKey struct{}

// Authenticate resolves the credential carried by r.
func (g *Gate) Authenticate(r *http.Request) (*users.User, error) {
	ctx := r.Context()

	if sid := strings.TrimSpace(r.Header.Get(SessionHeader)); sid != "" {
		if g.Sessions == nil {
			return nil, fmt.Errorf("%w: session ids are not accepted", services.ErrUnauthorized)
		}
		return g.Sessions.Resolve(ctx, sid)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("%w: credential required", services.ErrUnauthorized)
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("%w: invalid Authorization header format", services.ErrUnauthorized)
	}
	if g.Tokens == nil {
		return nil, fmt.Errorf("%w: bearer tokens are not accepted", services.ErrUnauthorized)
	}
	return g.Tokens.Resolve(ctx, strings.TrimSpace(parts[1]))
}

// RequireAuth rejects unauthenticated requests with 401 and stores the
// resolved user in the request context.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		user, err := g.Authenticate(r)
		if err != nil {
			log.Printf("[auth] %s %s rejected: %v", r.Method, r.URL.Path, err)
			respond.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func WithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*users.User)
	return user, ok && user != nil
}

// CurrentUserID is a handler helper; it writes 401 and returns false when no
// user is attached to the request.
func CurrentUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respond.Error(w, services.ErrUnauthorized)
		return 0, false
	}
	return user.ID, true
}
