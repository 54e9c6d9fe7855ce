// Package guard decides whether a navigation attempt may proceed given the
// current session. Evaluate is a pure function; callers re-run it on every
// session change.
package guard

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type Kind int

const (
	// Allowed renders the requested content.
	Allowed Kind = iota
	// Checking is shown while the profile loads and nothing is cached yet.
	Checking
	// Denied redirects to the login view, remembering the requested location.
	Denied
	// Forbidden redirects home; the user is signed in with the wrong role.
	Forbidden
	// Verifying is shown while a role-gated route waits for the role to load.
	Verifying
	// SignedIn redirects away from guest-only views such as the login form.
	SignedIn
)

func (k Kind) String() string {
	switch k {
	case Allowed:
		return "allowed"
	case Checking:
		return "checking"
	case Denied:
		return "denied"
	case Forbidden:
		return "forbidden"
	case Verifying:
		return "verifying"
	case SignedIn:
		return "signed-in"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Decision is the outcome of a guard evaluation. Redirect is set for
// Denied, Forbidden and SignedIn; From carries the requested location for
// Denied so login can return there.
type Decision struct {
	Kind     Kind
	Redirect string
	From     string
}

// Placeholder reports whether the decision renders a waiting placeholder
// instead of content or a redirect.
func (d Decision) Placeholder() bool {
	return d.Kind == Checking || d.Kind == Verifying
}

// Input is everything the guard looks at.
type Input struct {
	Session session.State
	// ProfilePending is true while a profile fetch is in flight.
	ProfilePending bool
}

// Evaluate decides the navigation to requested, which matched route r.
func Evaluate(in Input, r Route, requested string) Decision {
	st := in.Session

	if r.GuestOnly {
		if st.IsAuthenticated {
			return Decision{Kind: SignedIn, Redirect: HomePath}
		}
		return Decision{Kind: Allowed}
	}

	if !r.Protected() {
		return Decision{Kind: Allowed}
	}

	if !st.IsAuthenticated {
		if in.ProfilePending {
			return Decision{Kind: Checking}
		}
		return Decision{Kind: Denied, Redirect: LoginPath, From: requested}
	}

	if len(r.Roles) == 0 {
		return Decision{Kind: Allowed}
	}

	if st.Role() == "" {
		return Decision{Kind: Verifying}
	}
	if !slices.Contains(r.Roles, st.Role()) {
		return Decision{Kind: Forbidden, Redirect: HomePath}
	}
	return Decision{Kind: Allowed}
}

// Check matches path against the route table and evaluates it. Unknown
// paths are Allowed with ok false; the caller renders "not found".
func Check(in Input, path string) (d Decision, r Route, params Params, ok bool) {
	r, params, ok = Match(path)
	if !ok {
		return Decision{Kind: Allowed}, Route{}, nil, false
	}
	return Evaluate(in, r, path), r, params, true
}

// RequiresRole is a convenience for views that gate a single action.
func RequiresRole(st session.State, roles ...models.Role) bool {
	return st.IsAuthenticated && slices.Contains(roles, st.Role())
}
