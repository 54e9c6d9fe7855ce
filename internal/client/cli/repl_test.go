package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	failWith error

	calls []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failWith
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Register(ctx context.Context) error   { return f.record("register") }
func (f *fakeExec) Logout(ctx context.Context) error     { return f.record("logout") }
func (f *fakeExec) Whoami(ctx context.Context) error     { return f.record("whoami") }
func (f *fakeExec) CacheStats(ctx context.Context) error { return f.record("cache") }
func (f *fakeExec) Navigate(ctx context.Context, path string) error {
	return f.record("navigate " + path)
}
func (f *fakeExec) Act(ctx context.Context, action string, id int64) error {
	return f.record(fmt.Sprintf("act %s %d", action, id))
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &out
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}
	input := strings.Join([]string{
		"",
		"help",
		"login",
		"halls district=2 search=garden",
		"hall 7",
		"reserve 7",
		"cancel 3",
		"owner confirm 4",
		"admin user delete 9",
		"profile edit",
		"bogus",
		"exit",
		"whoami",
	}, "\n")

	runREPL(context.Background(), f, func() string { return "guest" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login",
		"navigate /wedding-halls?district_id=2&search=garden",
		"navigate /wedding-halls/7",
		"navigate /reservations/new?hall=7",
		"act cancel 3",
		"act owner-confirm 4",
		"act admin-user-delete 9",
		"act profile-edit 0",
	}, f.calls)
	assert.Contains(t, *out, "venuebook guest> ")
	assert.Contains(t, *out, "Unknown command: bogus")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, helpText(false))
}

func TestRunREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{failWith: &client.ValidationError{
		Message: "The given data was invalid.",
		Fields:  map[string][]string{"email": {"The email field is required."}},
	}}

	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader("register\nwhoami\n")))

	assert.Equal(t, []string{"register", "whoami"}, f.calls)
	assert.Contains(t, *out, "Error: The given data was invalid.\n  email: The email field is required.")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runREPL(ctx, f, func() string { return "" }, bufio.NewScanner(strings.NewReader("login\n")))
	assert.Empty(t, f.calls)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"districts", nav("/districts")},
		{"home", nav("/")},
		{"profile", nav("/profile")},
		{"my-reservations page=2", nav("/my-reservations?page=2")},
		{"owner dashboard", nav("/owner/dashboard")},
		{"owner halls", nav("/owner/wedding-halls")},
		{"owner hall new", nav("/owner/wedding-halls/new")},
		{"owner hall edit 5", nav("/owner/wedding-halls/edit/5")},
		{"owner hall delete 5", command{name: cmdAct, action: actOwnerHallDelete, id: 5}},
		{"owner reservations status=pending", nav("/owner/reservations?status=pending")},
		{"owner reject 8", command{name: cmdAct, action: actOwnerReject, id: 8}},
		{"admin dashboard", nav("/admin/dashboard")},
		{"admin users role=owner", nav("/admin/users?role=owner")},
		{"admin user edit 3", nav("/admin/users/edit/3")},
		{"admin owners", nav("/admin/owners")},
		{"admin owner new", command{name: cmdAct, action: actAdminOwnerCreate}},
		{"admin halls", nav("/admin/wedding-halls")},
		{"admin hall delete 2", command{name: cmdAct, action: actAdminHallDelete, id: 2}},
		{"admin reservations", nav("/admin/reservations")},
		{"quit", command{name: "exit"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(strings.Fields(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Usage(t *testing.T) {
	for _, line := range []string{"hall", "hall abc", "reserve -1", "cancel", "owner", "owner hall", "owner hall edit", "admin user", "admin nope"} {
		t.Run(line, func(t *testing.T) {
			_, err := parseCommand(strings.Fields(line))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errUsage), err.Error())
			assert.True(t, strings.HasPrefix(formatError(err), "Usage: "))
		})
	}
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "Error: The server is unavailable. Please try again later.", formatError(fmt.Errorf("x: %w", client.ErrUnavailable)))
	assert.Equal(t, "Error: boom", formatError(errors.New("boom")))
}
