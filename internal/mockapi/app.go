package mockapi

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/config"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/store"
)

// App wires config, seeded store and server for cmd/mockapi.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	st := store.New()
	seeded, err := store.Seed(st)
	if err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	logger.Info(context.Background(), "store seeded",
		"admin", seeded.Admin.Email,
		"owner", seeded.Owner.Email,
		"user", seeded.User.Email,
		"halls", len(seeded.Halls),
	)

	return &App{config: c, logger: logger, server: NewServer(c, st, logger)}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or the process is signalled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting mock API...")
	app.initSignalHandler(cancelFunc)

	return app.server.Run(ctx)
}
