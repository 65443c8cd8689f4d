// Package guard decides, for a path and the current session, whether
// navigation proceeds, waits, or redirects. The decision is pure: it is
// re-derived on every evaluation and holds no state of its own.
package guard

import "strings"

type Action int

const (
	// Wait means the session is still resolving; render nothing and do
	// not redirect.
	Wait Action = iota
	Allow
	Redirect
)

type Decision struct {
	Action Action
	Target string
}

type Guard struct {
	// AuthPrefix is the path prefix of the login/registration view.
	AuthPrefix string
	// HomePath is where authenticated users land when they hit the auth
	// view.
	HomePath string
	// Protected lists path prefixes that require an authenticated
	// session. "/" matches only the exact root path.
	Protected []string
}

// Default mirrors the storefront's routing: everything except the auth view
// requires a session.
func Default() *Guard {
	return &Guard{
		AuthPrefix: "/auth",
		HomePath:   "/",
		Protected:  []string{"/", "/products", "/product", "/cart", "/profile"},
	}
}

// Evaluate decides what happens for path given the session flags.
func (g *Guard) Evaluate(path string, authenticated, loading bool) Decision {
	if loading {
		return Decision{Action: Wait}
	}
	if strings.HasPrefix(path, g.AuthPrefix) {
		if authenticated {
			return Decision{Action: Redirect, Target: g.HomePath}
		}
		return Decision{Action: Allow}
	}
	if g.protected(path) && !authenticated {
		return Decision{Action: Redirect, Target: g.AuthPrefix}
	}
	return Decision{Action: Allow}
}

func (g *Guard) protected(path string) bool {
	for _, p := range g.Protected {
		if p == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
