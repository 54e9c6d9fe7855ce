package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/api"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/session"
	"github.com/dmitrijs2005/venuebook/internal/common"
)

// errNotLoggedIn is returned when the user abandons a login prompt.
var errNotLoggedIn = errors.New("not logged in")

// Login prompts for credentials and signs in. The session (and the
// persisted cookies) are updated before it returns.
func (a *App) Login(ctx context.Context) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	a.printf("Welcome, %s!\n", a.session.Snapshot().User.FullName())
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if email == "" {
		return errNotLoggedIn
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = api.RunMutation(ctx, a.api, api.Login, models.LoginRequest{Email: email, Password: string(password)})
	return err
}

// Register prompts for a new account. Password confirmation and required
// fields are checked before any request is made.
func (a *App) Register(ctx context.Context) error {
	var (
		req models.RegisterRequest
		err error
	)

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter name", &req.Name},
		{"Enter surname", &req.Surname},
		{"Enter username", &req.Username},
		{"Enter email", &req.Email},
		{"Enter phone (optional, e.g. +37120000000)", &req.Phone},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	req.Password, req.PasswordConfirmation = string(password), string(confirmation)

	res, err := api.RunMutation(ctx, a.api, api.Register, req)
	if err != nil {
		return err
	}
	a.printf("Account created. Welcome, %s!\n", res.User.FullName())
	return nil
}

// Logout signs out. The server call is best-effort; the local session is
// cleared regardless.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("You are not logged in.\n")
		return nil
	}
	a.closeScreen()
	if _, err := api.RunMutation(ctx, a.api, api.Logout, api.None{}); err != nil {
		a.logger.Debug(ctx, "server logout failed", "error", err)
	}
	a.printf("Logged out.\n")
	return nil
}

// Whoami prints the session as the client currently believes it to be.
func (a *App) Whoami(ctx context.Context) error {
	st := a.session.Snapshot()
	if !st.IsAuthenticated {
		a.printf("Not logged in.\n")
		return nil
	}
	if st.User == nil {
		a.printf("Logged in, profile not loaded yet.\n")
	} else {
		a.printf("%s <%s>, role %s\n", st.User.FullName(), st.User.Email, st.User.Role)
	}
	if exp, ok := session.TokenExpiry(st.Token); ok {
		a.printf("Token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// CacheStats prints what the query cache holds.
func (a *App) CacheStats(ctx context.Context) error {
	st := a.api.Cache().Stats()
	a.printf("entries: %d, in flight: %d, subscribers: %d, screen: %s\n",
		st.Entries, st.InFlight, st.Subscribers, a.currentPath())
	return nil
}
