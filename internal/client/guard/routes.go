package guard

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
)

// Route is one entry of the navigation surface. Patterns use ":name" for
// path parameters.
type Route struct {
	Name      string
	Pattern   string
	Auth      bool
	Roles     []models.Role
	GuestOnly bool
}

// Protected reports whether the route needs a signed-in user.
func (r Route) Protected() bool {
	return r.Auth || len(r.Roles) > 0
}

// Params holds the values of ":name" segments.
type Params map[string]string

// Int64 parses a numeric parameter.
func (p Params) Int64(name string) (int64, bool) {
	v, err := strconv.ParseInt(p[name], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var (
	owner = []models.Role{models.RoleOwner}
	admin = []models.Role{models.RoleAdmin}
)

// Routes is the navigation surface. More specific patterns come first.
var Routes = []Route{
	{Name: "home", Pattern: "/"},
	{Name: "login", Pattern: "/login", GuestOnly: true},
	{Name: "register", Pattern: "/register", GuestOnly: true},
	{Name: "profile", Pattern: "/profile", Auth: true},
	{Name: "halls", Pattern: "/wedding-halls"},
	{Name: "hall", Pattern: "/wedding-halls/:id"},
	{Name: "districts", Pattern: "/districts"},
	{Name: "my-reservations", Pattern: "/my-reservations", Auth: true},
	{Name: "reservation-new", Pattern: "/reservations/new", Auth: true},

	{Name: "owner-dashboard", Pattern: "/owner/dashboard", Roles: owner},
	{Name: "owner-halls", Pattern: "/owner/wedding-halls", Roles: owner},
	{Name: "owner-hall-new", Pattern: "/owner/wedding-halls/new", Roles: owner},
	{Name: "owner-hall-edit", Pattern: "/owner/wedding-halls/edit/:id", Roles: owner},
	{Name: "owner-reservations", Pattern: "/owner/reservations", Roles: owner},

	{Name: "admin-dashboard", Pattern: "/admin/dashboard", Roles: admin},
	{Name: "admin-users", Pattern: "/admin/users", Roles: admin},
	{Name: "admin-user-edit", Pattern: "/admin/users/edit/:id", Roles: admin},
	{Name: "admin-owners", Pattern: "/admin/owners", Roles: admin},
	{Name: "admin-halls", Pattern: "/admin/wedding-halls", Roles: admin},
	{Name: "admin-reservations", Pattern: "/admin/reservations", Roles: admin},
}

// Match finds the route for path. Query strings are ignored.
func Match(path string) (Route, Params, bool) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := split(path)

	for _, r := range Routes {
		if params, ok := matchPattern(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Lookup returns the route with the given name.
func Lookup(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchPattern(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params Params
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = Params{}
			}
			params[seg[1:]] = segs[i]
			continue
		}
		if seg != segs[i] {
			return nil, false
		}
	}
	return params, true
}
