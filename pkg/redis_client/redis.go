package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/metroseat/metroseat/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

// Configured reports whether a Redis address has been provided; the
// server runs without the shared response cache and feedback queue
// when it has not.
func Configured() bool {
	return util.GetEnvironmentVariables()["METROSEAT_REDIS_ADDRESS"] != ""
}

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["METROSEAT_REDIS_ADDRESS"] != "" {
		address = env["METROSEAT_REDIS_ADDRESS"]
	}

	if env["METROSEAT_REDIS_PASSWORD"] != "" {
		password = env["METROSEAT_REDIS_PASSWORD"]
	}

	if env["METROSEAT_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["METROSEAT_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	// Give a slow-starting Redis a few seconds before giving up.
	err := backoff.Retry(func() error {
		return Client.Ping(context.Background()).Err()
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4))
	if err != nil {
		return err
	}

	QueueConnection, err = rmq.OpenConnectionWithRedisClient("metroseat", Client, nil)

	if err != nil {
		return err
	}

	return nil
}
