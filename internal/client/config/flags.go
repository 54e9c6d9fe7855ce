package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-r", "-t", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.StoreKind, "s", cfg.StoreKind, "credential store: sqlite, redis or memory")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "SQLite file of the credential store")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address of the credential store")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	sessionCheckInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.SessionCheckInterval = time.Duration(*sessionCheckInterval) * time.Second
}
