package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/api"
	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/dmitrijs2005/venuebook/internal/client/config"
	"github.com/dmitrijs2005/venuebook/internal/client/guard"
	"github.com/dmitrijs2005/venuebook/internal/client/persistence"
	"github.com/dmitrijs2005/venuebook/internal/client/querycache"
	"github.com/dmitrijs2005/venuebook/internal/client/session"
	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config  *config.Config
	logger  logging.Logger
	session *session.Store
	api     *api.Client
	reader  *bufio.Reader
	out     io.Writer

	// outMu serialises writes from the REPL and from background refreshes.
	outMu sync.Mutex

	screenMu sync.Mutex
	screen   *screen

	profilePending atomic.Bool
	closers        []func() error
}

// screen is what the user is looking at: one path and at most one live
// cache subscription.
type screen struct {
	path string
	sub  *querycache.Subscription
}

// NewApp wires the credential store selected by c, the session, the query
// cache and the HTTP transport.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, closer, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	sess := session.New(ctx, store, logger)
	tr, err := client.NewHTTPTransport(c.APIBaseURL, c.RequestTimeout, sess, logger)
	if err != nil {
		_ = closer()
		return nil, err
	}
	cache := querycache.New(ctx, logger)

	a := newApp(c, logger, sess, api.New(tr, cache, sess, logger), bufio.NewReader(os.Stdin), os.Stdout)
	a.closers = append(a.closers, closer)
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, sess *session.Store, apiClient *api.Client, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		config:  c,
		logger:  logger,
		session: sess,
		api:     apiClient,
		reader:  reader,
		out:     out,
	}
}

func openStore(ctx context.Context, c *config.Config) (persistence.Store, func() error, error) {
	switch c.StoreKind {
	case config.StoreSQLite:
		db, err := client.InitDatabase(ctx, c.StoreDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return persistence.NewCookieStore(db, c.CredentialTTL), db.Close, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("error connecting to redis at %s: %w", c.RedisAddr, err)
		}
		return persistence.NewRedisStore(rdb, c.RedisPrefix, c.CredentialTTL), rdb.Close, nil

	case config.StoreMemory:
		return persistence.NewMemoryStore(c.CredentialTTL), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown credential store %q", c.StoreKind)
}

// Run starts the session watcher and the REPL and blocks until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.printf("Welcome to venuebook (type 'help' for commands)\n")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.isLoggedIn() {
		go a.verifySession(ctx)
	}
	go a.StartSessionWatcher(ctx, a.config.SessionCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	a.closeScreen()
	a.api.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated
}

func (a *App) getStatus() string {
	st := a.session.Snapshot()
	switch {
	case !st.IsAuthenticated:
		return "guest"
	case st.User == nil:
		return "verifying"
	}
	return fmt.Sprintf("%s (%s)", st.User.Username, st.User.Role)
}

func (a *App) guardInput() guard.Input {
	return guard.Input{Session: a.session.Snapshot(), ProfilePending: a.profilePending.Load()}
}

// verifySession asks the server who the cached token belongs to. A 401/403
// logs the session out (see api.GetProfile); the profile otherwise refreshes
// the cached user.
func (a *App) verifySession(ctx context.Context) {
	if !a.profilePending.CompareAndSwap(false, true) {
		a.waitProfile(ctx)
		return
	}
	defer a.profilePending.Store(false)

	token := a.session.Token()
	profile, err := api.RunQuery(ctx, a.api, api.GetProfile, api.None{})
	if err != nil {
		a.logger.Debug(ctx, "session verification failed", "error", err)
		return
	}

	// The session may have changed while the request was in flight.
	a.session.Refresh(ctx, token, profile)
}

// waitProfile blocks until a verification started elsewhere finishes.
func (a *App) waitProfile(ctx context.Context) {
	for a.profilePending.Load() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(20 * time.Millisecond):
		}
	}
}

// StartSessionWatcher re-reads the persisted credentials every interval and
// logs the session out once the token cookie has expired or been removed.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.session.Reconcile(ctx) {
				a.printf("\nYour session has expired. Please log in again.\n")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// setScreen makes path current and closes the previous subscription.
func (a *App) setScreen(path string, sub *querycache.Subscription) {
	a.screenMu.Lock()
	prev := a.screen
	a.screen = &screen{path: path, sub: sub}
	a.screenMu.Unlock()

	if prev != nil && prev.sub != nil && prev.sub != sub {
		prev.sub.Close()
	}
}

func (a *App) closeScreen() {
	a.screenMu.Lock()
	prev := a.screen
	a.screen = nil
	a.screenMu.Unlock()

	if prev != nil && prev.sub != nil {
		prev.sub.Close()
	}
}

// currentPath is the location shown in the prompt.
func (a *App) currentPath() string {
	a.screenMu.Lock()
	defer a.screenMu.Unlock()
	if a.screen == nil {
		return guard.HomePath
	}
	return a.screen.path
}
