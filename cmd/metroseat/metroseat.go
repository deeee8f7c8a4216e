package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/metroseat/metroseat/pkg/api"
	"github.com/metroseat/metroseat/pkg/feedback"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("METROSEAT_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("METROSEAT_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "metroseat",
		Description: "Seat recommendation services for Seoul Metro Line 2 - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			feedback.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
