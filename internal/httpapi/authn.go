package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/login",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/metrics",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// withAuth rejects any non-public request that does not carry a valid bearer
// token, and stores the resolved principal on the request context.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		principal, _, _, err := a.portal.Identify(r.Context(), userID)
		if err != nil {
			if errors.Is(err, portal.ErrUnauthorized) {
				writeError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			handlePortalError(w, r, err)
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// principal pulls the authenticated caller; withAuth guarantees it exists for
// non-public routes, so a miss is answered 401.
func (a *API) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
		return auth.Principal{}, false
	}
	return p, true
}

// requireRole gates a route to an explicit role list (admin always passes).
func (a *API) requireRole(w http.ResponseWriter, r *http.Request, roles ...auth.Role) (auth.Principal, bool) {
	p, ok := a.principal(w, r)
	if !ok {
		return auth.Principal{}, false
	}
	if p.Role == auth.RoleAdmin {
		return p, true
	}
	for _, role := range roles {
		if p.Role == role {
			return p, true
		}
	}
	writeError(w, r, http.StatusForbidden, "You do not have access to this resource")
	return auth.Principal{}, false
}

// requirePermission gates a route through the role policy.
func (a *API) requirePermission(w http.ResponseWriter, r *http.Request, perms ...string) (auth.Principal, bool) {
	p, ok := a.principal(w, r)
	if !ok {
		return auth.Principal{}, false
	}
	if a.policy.AllowsAny(p.Role, perms...) {
		return p, true
	}
	writeError(w, r, http.StatusForbidden, "You do not have access to this resource")
	return auth.Principal{}, false
}
