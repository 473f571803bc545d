package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/mycloud/internal/buildinfo"
	"github.com/dmitrijs2005/mycloud/internal/client/cli"
	"github.com/dmitrijs2005/mycloud/internal/client/config"
	"github.com/dmitrijs2005/mycloud/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
