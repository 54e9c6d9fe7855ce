package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/api"
	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/dmitrijs2005/venuebook/internal/client/config"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/persistence"
	"github.com/dmitrijs2005/venuebook/internal/client/querycache"
	"github.com/dmitrijs2005/venuebook/internal/client/session"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/dmitrijs2005/venuebook/internal/mockapi"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/auth"
	mockconfig "github.com/dmitrijs2005/venuebook/internal/mockapi/config"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "cli-test-secret"

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type backend struct {
	srv    *httptest.Server
	store  *store.Store
	seeded store.Seeded
	mem    *persistence.MemoryStore
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	st := store.New()
	sd, err := store.Seed(st)
	require.NoError(t, err)

	cfg := &mockconfig.Config{SecretKey: testSecret, TokenTTL: time.Hour}
	srv := httptest.NewServer(mockapi.NewServer(cfg, st, logging.NewNopLogger()).Handler())
	t.Cleanup(srv.Close)

	return &backend{srv: srv, store: st, seeded: sd, mem: persistence.NewMemoryStore(common.DefaultCredentialTTL)}
}

// start builds an App against the backend. input feeds the line prompts;
// passwords answer the password prompts in order.
func (b *backend) start(t *testing.T, input string, passwords ...string) (*App, *syncBuffer) {
	t.Helper()

	ctx := context.Background()
	logger := logging.NewNopLogger()

	var mu sync.Mutex
	old := getPassword
	getPassword = func(prompt string, w io.Writer) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(passwords) == 0 {
			return nil, fmt.Errorf("unexpected password prompt %q", prompt)
		}
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = old })

	sess := session.New(ctx, b.mem, logger)
	tr, err := client.NewHTTPTransport(b.srv.URL+mockapi.APIPrefix, 5*time.Second, sess, logger)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	out := &syncBuffer{}
	a := newApp(cfg, logger, sess, api.New(tr, querycache.New(ctx, logger), sess, logger),
		bufio.NewReader(strings.NewReader(input)), out)
	t.Cleanup(a.Close)
	return a, out
}

func TestApp_DeepLinkLoginReturnsToRequestedScreen(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Navigate(ctx, "/my-reservations"))

	assert.Contains(t, out.String(), "Please log in to continue.")
	assert.Contains(t, out.String(), "No reservations.")
	assert.Equal(t, "/my-reservations", a.currentPath())
	assert.Equal(t, "user (user)", a.getStatus())

	creds, err := b.mem.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token, "the session is persisted")
	require.NotNil(t, creds.User)
	assert.Equal(t, store.UserEmail, creds.User.Email)
}

func TestApp_AbandonedLoginStaysOut(t *testing.T) {
	b := newBackend(t)
	a, _ := b.start(t, "\n")

	err := a.Navigate(context.Background(), "/profile")
	assert.ErrorIs(t, err, errNotLoggedIn)
	assert.False(t, a.isLoggedIn())
}

func TestApp_WrongRoleRedirectsHome(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Navigate(ctx, "/admin/dashboard"))

	assert.Contains(t, out.String(), "You do not have access to /admin/dashboard.")
	assert.Contains(t, out.String(), helpText(true))
	assert.Equal(t, "/", a.currentPath())
}

func TestApp_GuestOnlyScreens(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.OwnerEmail+"\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Navigate(ctx, "/login"))

	assert.Contains(t, out.String(), "You are already logged in.")
	assert.Equal(t, "/", a.currentPath())
}

func TestApp_CachedTokenIsVerifiedBeforeRoleCheck(t *testing.T) {
	b := newBackend(t)
	tok, err := auth.GenerateToken(b.seeded.Owner.ID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	require.NoError(t, b.mem.Save(context.Background(), persistence.Credentials{Token: tok}))

	a, out := b.start(t, "")
	ctx := context.Background()
	require.Equal(t, "verifying", a.getStatus())

	require.NoError(t, a.Navigate(ctx, "/owner/dashboard"))

	assert.Contains(t, out.String(), "Verifying access...")
	assert.Contains(t, out.String(), "Halls:                3")
	assert.Equal(t, "owner (owner)", a.getStatus())
}

func TestApp_RejectedCredentialLogsOutAndAsksToLogIn(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, b.store.DeleteUser(b.seeded.User.ID))

	err := a.Navigate(ctx, "/profile")

	assert.ErrorIs(t, err, errNotLoggedIn, "the second login prompt was abandoned")
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Please log in to continue.")

	creds, err := b.mem.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestApp_ScreenRefreshesAfterMutation(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Navigate(ctx, "/my-reservations"))
	require.Contains(t, out.String(), "No reservations.")

	hall := b.seeded.Halls[0]
	_, err := api.RunMutation(ctx, a.api, api.CreateReservation, models.ReservationRequest{
		WeddingHallID: hall.ID, ReservationDate: "2099-01-01", GuestCount: 10,
		CustomerName: "Ursula", CustomerSurname: "User", Phone: "+37120000002",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "-- /my-reservations refreshed --") && strings.Contains(s, hall.Name)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApp_ReserveThroughForm(t *testing.T) {
	b := newBackend(t)
	hall := b.seeded.Halls[1]
	// email, date, guests, then keep the prefilled customer fields
	input := strings.Join([]string{store.UserEmail, "2099-02-02", "20", "", "", ""}, "\n") + "\n"
	a, out := b.start(t, input, store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Navigate(ctx, fmt.Sprintf("/reservations/new?hall=%d", hall.ID)))

	s := out.String()
	assert.Contains(t, s, "Booking "+hall.Name)
	assert.Contains(t, s, "status pending")
	assert.Contains(t, s, "2099-02-02")
	assert.Equal(t, "/my-reservations", a.currentPath())
}

func TestApp_LogoutIsBestEffort(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	b.srv.Close()

	require.NoError(t, a.Logout(ctx))

	assert.Contains(t, out.String(), "Logged out.")
	assert.False(t, a.isLoggedIn())
	creds, err := b.mem.Load(ctx)
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}

func TestApp_WhoamiAndCacheStats(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n", store.SeedPassword)
	ctx := context.Background()

	require.NoError(t, a.Whoami(ctx))
	assert.Contains(t, out.String(), "Not logged in.")

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Whoami(ctx))
	assert.Contains(t, out.String(), "Ursula User <user@venuebook.test>, role user")
	assert.Contains(t, out.String(), "Token expires")

	require.NoError(t, a.Navigate(ctx, "/wedding-halls"))
	require.NoError(t, a.CacheStats(ctx))
	assert.Contains(t, out.String(), "entries: 1, in flight: 0, subscribers: 1, screen: /wedding-halls")
}

func TestApp_SessionWatcherNoticesExpiredCookie(t *testing.T) {
	b := newBackend(t)
	a, out := b.start(t, store.UserEmail+"\n", store.SeedPassword)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, a.Login(ctx))
	go a.StartSessionWatcher(ctx, 10*time.Millisecond)

	b.mem.Expire(common.TokenCookieName)

	assert.Eventually(t, func() bool { return !a.isLoggedIn() }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Your session has expired.")
	}, 2*time.Second, 10*time.Millisecond)
}
