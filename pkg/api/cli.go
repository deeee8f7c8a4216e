package api

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/metroseat/metroseat/pkg/api/routes"
	"github.com/metroseat/metroseat/pkg/calibration"
	"github.com/metroseat/metroseat/pkg/database"
	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/feedback"
	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/redis_client"
	"github.com/metroseat/metroseat/pkg/seatscore"
	"github.com/metroseat/metroseat/pkg/util"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					dataDirectory := util.GetEnvironmentVariable("METROSEAT_DATA_DIR", "data")

					ring, err := loadRing(dataDirectory)
					if err != nil {
						return err
					}

					data := dataset.NewStore(ring, seatscore.TotalCars)
					if err := loadDatasets(data, dataDirectory); err != nil {
						return err
					}
					data.Validate()

					calibrations := calibration.NewStore()
					calibrationPath := filepath.Join(dataDirectory, "calibration.yaml")
					if err := calibrations.LoadYAML(calibrationPath); err != nil {
						return err
					}

					engine := seatscore.New(ring, data, calibrations)

					if util.GetEnvironmentVariable("METROSEAT_MONGODB_CONNECTION", "") != "" {
						if err := database.Connect(); err != nil {
							return err
						}
					} else {
						log.Info().Msg("MongoDB not configured, model validation endpoint disabled")
					}

					if redis_client.Configured() {
						if err := redis_client.Connect(); err != nil {
							return err
						}

						if err := feedback.Setup(); err != nil {
							return err
						}

						routes.EnableResponseCache()
					} else {
						log.Info().Msg("Redis not configured, running without shared cache and feedback queue")
					}

					routes.Setup(ring, calibrations, engine)

					return SetupServer(c.String("listen"))
				},
			},
		},
	}
}

// loadRing prefers a stations override file, falling back to the
// built-in Line 2 table.
func loadRing(directory string) (*line.Ring, error) {
	path := filepath.Join(directory, "stations.yaml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return line.Line2(), nil
	}

	ring, err := line.LoadRingYAML(path)
	if err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Int("stations", ring.Size()).Msg("Loaded stations override file")

	return ring, nil
}

func loadDatasets(data *dataset.Store, directory string) error {
	paths, err := filepath.Glob(filepath.Join(directory, "*.csv"))
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		// Scoring still works off the fallback defaults, just with
		// nothing to differentiate the cars.
		log.Warn().Str("directory", directory).Msg("No congestion datasets found")
		return nil
	}

	for _, path := range paths {
		if err := data.LoadCSV(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
	}

	log.Info().Int("samples", data.SampleCount()).Msg("Congestion datasets ready")

	return nil
}
