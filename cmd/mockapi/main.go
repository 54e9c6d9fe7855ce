package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/dmitrijs2005/venuebook/internal/mockapi"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stdout, cfg.LogLevel)

	app, err := mockapi.NewApp(cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
