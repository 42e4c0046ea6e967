package middleware

import (
	"net/http"
	"strings"

	"go-account-portal/internal/model"
)

type tokenVerifier interface {
	Verify(raw string) (model.AuthClaims, bool)
}

type sessionReader interface {
	Read(r *http.Request) (string, bool)
}

type pathClass int

const (
	classBypass pathClass = iota
	classProtected
	classPublicEntry
	classOther
)

// API endpoints check their own authentication; assets and health checks
// carry no session at all. The guard never touches these.
var bypassPrefixes = []string{"/api/", "/static/"}

var bypassExact = []string{"/api", "/favicon.ico", "/health"}

var protectedPrefixes = []string{"/dashboard", "/profile", "/settings"}

const (
	publicEntryPath  = "/"
	protectedDefault = "/dashboard"
)

// RouteGuard gates page navigation on session state. Evaluation is
// stateless and happens once per request: classify the path, resolve the
// session to authenticated or not, then either pass through or redirect.
// An invalid token is indistinguishable from an absent one.
type RouteGuard struct {
	sessions sessionReader
	tokens   tokenVerifier
}

func NewRouteGuard(sessions sessionReader, tokens tokenVerifier) *RouteGuard {
	return &RouteGuard{sessions: sessions, tokens: tokens}
}

func (g *RouteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := classify(r.URL.Path)
		if class == classBypass {
			next.ServeHTTP(w, r)
			return
		}

		authenticated := false
		if raw, ok := g.sessions.Read(r); ok {
			_, authenticated = g.tokens.Verify(raw)
		}

		switch {
		case class == classProtected && !authenticated:
			http.Redirect(w, r, publicEntryPath, http.StatusSeeOther)
		case class == classPublicEntry && authenticated:
			http.Redirect(w, r, protectedDefault, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func classify(path string) pathClass {
	for _, exact := range bypassExact {
		if path == exact {
			return classBypass
		}
	}
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return classBypass
		}
	}

	if path == publicEntryPath {
		return classPublicEntry
	}

	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return classProtected
		}
	}

	return classOther
}
