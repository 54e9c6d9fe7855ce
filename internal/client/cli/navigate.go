package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/venuebook/internal/client/guard"
)

// maxHops bounds redirect chains (login -> deep link -> forbidden -> home).
const maxHops = 5

// errDetached means the screen's subscription was dropped before its first
// render, typically because the session changed underneath it.
var errDetached = errors.New("screen detached")

// Navigate evaluates the guard for path and renders the screen, following
// redirects. A Denied decision runs the login prompt and then returns to the
// location originally requested.
func (a *App) Navigate(ctx context.Context, path string) error {
	for hop := 0; hop < maxHops; hop++ {
		d, route, params, ok := guard.Check(a.guardInput(), path)
		if !ok {
			a.printf("Not found: %s\n", path)
			return nil
		}

		switch d.Kind {
		case guard.Checking, guard.Verifying:
			if d.Kind == guard.Checking {
				a.printf("Loading...\n")
			} else {
				a.printf("Verifying access...\n")
			}
			a.verifySession(ctx)
			if a.guardInput().Session.Role() == "" && a.isLoggedIn() {
				return fmt.Errorf("could not verify access to %s", path)
			}
			continue

		case guard.Denied:
			a.printf("Please log in to continue.\n")
			if err := a.login(ctx); err != nil {
				return err
			}
			path = d.From
			continue

		case guard.Forbidden:
			a.printf("You do not have access to %s.\n", path)
			path = d.Redirect
			continue

		case guard.SignedIn:
			a.printf("You are already logged in.\n")
			path = d.Redirect
			continue
		}

		err := a.render(ctx, route, params, query(path), path)
		if errors.Is(err, errDetached) {
			continue
		}
		return err
	}
	return fmt.Errorf("too many redirects while opening %s", path)
}

// authorize runs the guard for the route an action belongs to, prompting for
// login when needed. It reports whether the action may proceed.
func (a *App) authorize(ctx context.Context, path string) (bool, error) {
	for hop := 0; hop < maxHops; hop++ {
		d, _, _, _ := guard.Check(a.guardInput(), path)
		switch d.Kind {
		case guard.Allowed:
			return true, nil
		case guard.Checking, guard.Verifying:
			a.verifySession(ctx)
			if a.guardInput().Session.Role() == "" && a.isLoggedIn() {
				return false, fmt.Errorf("could not verify access to %s", path)
			}
		case guard.Denied:
			a.printf("Please log in to continue.\n")
			if err := a.login(ctx); err != nil {
				return false, err
			}
		default:
			a.printf("You do not have access to this action.\n")
			return false, nil
		}
	}
	return false, nil
}

func query(path string) url.Values {
	u, err := url.Parse(path)
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}

// render draws the screen for a matched route.
func (a *App) render(ctx context.Context, r guard.Route, params guard.Params, q url.Values, path string) error {
	switch r.Name {
	case "home":
		a.setScreen(path, nil)
		a.printf("%s\n", helpText(a.isLoggedIn()))
		return nil
	case "login":
		return a.login(ctx)
	case "register":
		return a.Register(ctx)
	case "profile":
		return a.showProfile(ctx, path)
	case "halls":
		return a.showHalls(ctx, path, q)
	case "hall":
		id, _ := params.Int64("id")
		return a.showHall(ctx, path, id)
	case "districts":
		return a.showDistricts(ctx, path)
	case "my-reservations":
		return a.showMyReservations(ctx, path, q)
	case "reservation-new":
		return a.newReservation(ctx, q)
	case "owner-dashboard":
		return a.showOwnerDashboard(ctx, path)
	case "owner-halls":
		return a.showOwnerHalls(ctx, path, q)
	case "owner-hall-new":
		return a.saveHall(ctx, 0)
	case "owner-hall-edit":
		id, _ := params.Int64("id")
		return a.saveHall(ctx, id)
	case "owner-reservations":
		return a.showOwnerReservations(ctx, path, q)
	case "admin-dashboard":
		return a.showAdminDashboard(ctx, path)
	case "admin-users":
		return a.showAdminUsers(ctx, path, q)
	case "admin-user-edit":
		id, _ := params.Int64("id")
		return a.editUser(ctx, id)
	case "admin-owners":
		return a.showAdminOwners(ctx, path, q)
	case "admin-halls":
		return a.showAdminHalls(ctx, path, q)
	case "admin-reservations":
		return a.showAdminReservations(ctx, path, q)
	}
	a.printf("Not found: %s\n", path)
	return nil
}
