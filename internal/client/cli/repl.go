package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/venuebook/internal/client/client"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	CacheStats(ctx context.Context) error
	Navigate(ctx context.Context, path string) error
	Act(ctx context.Context, action string, id int64) error
}

// Actions run through Act. Each is gated by the route it belongs to.
const (
	actProfileEdit      = "profile-edit"
	actCancel           = "cancel"
	actOwnerHallDelete  = "owner-hall-delete"
	actOwnerConfirm     = "owner-confirm"
	actOwnerReject      = "owner-reject"
	actAdminUserDelete  = "admin-user-delete"
	actAdminOwnerCreate = "admin-owner-new"
	actAdminHallDelete  = "admin-hall-delete"
)

// command is one parsed REPL line.
type command struct {
	name   string
	path   string
	action string
	id     int64
}

const (
	cmdNavigate = "navigate"
	cmdAct      = "act"
)

var errUsage = errors.New("usage")

type usageError struct{ usage string }

func (e *usageError) Error() string { return "Usage: " + e.usage }

func (e *usageError) Is(target error) bool { return target == errUsage }

func usage(u string) error { return &usageError{usage: u} }

// parseCommand maps a REPL line onto a navigation path, an action or a
// built-in command.
func parseCommand(parts []string) (command, error) {
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help", "login", "register", "logout", "whoami", "cache":
		return command{name: cmd}, nil
	case "exit", "quit":
		return command{name: "exit"}, nil

	case "home":
		return nav("/"), nil
	case "profile":
		if len(args) > 0 && args[0] == "edit" {
			return command{name: cmdAct, action: actProfileEdit}, nil
		}
		return nav("/profile"), nil
	case "halls":
		return nav(withQuery("/wedding-halls", args, map[string]string{"district": "district_id"})), nil
	case "hall":
		id, err := idArg(args, 0, "hall <id>")
		if err != nil {
			return command{}, err
		}
		return nav(fmt.Sprintf("/wedding-halls/%d", id)), nil
	case "districts":
		return nav("/districts"), nil
	case "reserve":
		id, err := idArg(args, 0, "reserve <hall id>")
		if err != nil {
			return command{}, err
		}
		return nav(fmt.Sprintf("/reservations/new?hall=%d", id)), nil
	case "my-reservations":
		return nav(withQuery("/my-reservations", args, nil)), nil
	case "cancel":
		id, err := idArg(args, 0, "cancel <reservation id>")
		if err != nil {
			return command{}, err
		}
		return command{name: cmdAct, action: actCancel, id: id}, nil
	case "owner":
		return parseOwner(args)
	case "admin":
		return parseAdmin(args)
	}
	return command{}, fmt.Errorf("Unknown command: %s", cmd)
}

func parseOwner(args []string) (command, error) {
	const u = "owner dashboard|halls|hall new|hall edit <id>|hall delete <id>|reservations|confirm <id>|reject <id>"
	if len(args) == 0 {
		return command{}, usage(u)
	}

	switch args[0] {
	case "dashboard":
		return nav("/owner/dashboard"), nil
	case "halls":
		return nav(withQuery("/owner/wedding-halls", args[1:], nil)), nil
	case "reservations":
		return nav(withQuery("/owner/reservations", args[1:], nil)), nil
	case "confirm", "reject":
		id, err := idArg(args, 1, "owner "+args[0]+" <reservation id>")
		if err != nil {
			return command{}, err
		}
		action := actOwnerConfirm
		if args[0] == "reject" {
			action = actOwnerReject
		}
		return command{name: cmdAct, action: action, id: id}, nil
	case "hall":
		if len(args) < 2 {
			return command{}, usage(u)
		}
		switch args[1] {
		case "new":
			return nav("/owner/wedding-halls/new"), nil
		case "edit":
			id, err := idArg(args, 2, "owner hall edit <id>")
			if err != nil {
				return command{}, err
			}
			return nav(fmt.Sprintf("/owner/wedding-halls/edit/%d", id)), nil
		case "delete":
			id, err := idArg(args, 2, "owner hall delete <id>")
			if err != nil {
				return command{}, err
			}
			return command{name: cmdAct, action: actOwnerHallDelete, id: id}, nil
		}
	}
	return command{}, usage(u)
}

func parseAdmin(args []string) (command, error) {
	const u = "admin dashboard|users|user edit <id>|user delete <id>|owners|owner new|halls|hall delete <id>|reservations"
	if len(args) == 0 {
		return command{}, usage(u)
	}

	switch args[0] {
	case "dashboard":
		return nav("/admin/dashboard"), nil
	case "users":
		return nav(withQuery("/admin/users", args[1:], nil)), nil
	case "owners":
		return nav(withQuery("/admin/owners", args[1:], nil)), nil
	case "halls":
		return nav(withQuery("/admin/wedding-halls", args[1:], nil)), nil
	case "reservations":
		return nav(withQuery("/admin/reservations", args[1:], nil)), nil
	case "owner":
		if len(args) > 1 && args[1] == "new" {
			return command{name: cmdAct, action: actAdminOwnerCreate}, nil
		}
	case "user":
		if len(args) < 2 {
			break
		}
		switch args[1] {
		case "edit":
			id, err := idArg(args, 2, "admin user edit <id>")
			if err != nil {
				return command{}, err
			}
			return nav(fmt.Sprintf("/admin/users/edit/%d", id)), nil
		case "delete":
			id, err := idArg(args, 2, "admin user delete <id>")
			if err != nil {
				return command{}, err
			}
			return command{name: cmdAct, action: actAdminUserDelete, id: id}, nil
		}
	case "hall":
		if len(args) > 1 && args[1] == "delete" {
			id, err := idArg(args, 2, "admin hall delete <id>")
			if err != nil {
				return command{}, err
			}
			return command{name: cmdAct, action: actAdminHallDelete, id: id}, nil
		}
	}
	return command{}, usage(u)
}

func nav(path string) command {
	return command{name: cmdNavigate, path: path}
}

func idArg(args []string, i int, u string) (int64, error) {
	if len(args) <= i {
		return 0, usage(u)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(u)
	}
	return id, nil
}

// withQuery turns "key=value" arguments into a query string. aliases
// renames user-facing keys to wire keys.
func withQuery(path string, args []string, aliases map[string]string) string {
	q := url.Values{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" || v == "" {
			continue
		}
		if alias, found := aliases[k]; found {
			k = alias
		}
		q.Set(k, v)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// runREPL starts a simple read–eval–print loop for the venuebook CLI.
//
// It reads a line from the provided scanner, parses it with parseCommand and
// dispatches to methods on 'a'. Errors returned by handlers are printed and
// never end the loop. The loop exits on scanner EOF, on "exit"/"quit" or
// when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("venuebook %s> ", statusFn()))
		if ctx.Err() != nil || !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		c, err := parseCommand(parts)
		if err != nil {
			printlnFn(err.Error())
			continue
		}

		switch c.name {
		case "help":
			printlnFn(helpText(a.isLoggedIn()))
		case "login":
			err = a.Login(ctx)
		case "register":
			err = a.Register(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "cache":
			err = a.CacheStats(ctx)
		case cmdNavigate:
			err = a.Navigate(ctx, c.path)
		case cmdAct:
			err = a.Act(ctx, c.action, c.id)
		case "exit":
			printlnFn("Bye!")
			return
		}

		if err != nil {
			printlnFn(formatError(err))
		}
	}
}

func helpText(loggedIn bool) string {
	common := "halls [district=<id>] [search=<text>] [page=<n>], hall <id>, districts, whoami, cache, exit"
	if !loggedIn {
		return "Available commands: login, register, " + common
	}
	return "Available commands: profile, profile edit, reserve <hall id>, my-reservations, cancel <id>, " +
		"owner ..., admin ..., logout, " + common
}

// formatError renders err the way the views show it: validation failures
// per field, everything else as one line.
func formatError(err error) string {
	var verr *client.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		names := make([]string, 0, len(verr.Fields))
		for n := range verr.Fields {
			names = append(names, n)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("Error: " + verr.Error())
		for _, n := range names {
			for _, m := range verr.Fields[n] {
				fmt.Fprintf(&b, "\n  %s: %s", n, m)
			}
		}
		return b.String()
	}
	if errors.Is(err, errUsage) {
		return err.Error()
	}
	return "Error: " + client.UserMessage(err)
}
