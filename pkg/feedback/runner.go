package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"

	"github.com/metroseat/metroseat/pkg/database"
	"github.com/metroseat/metroseat/pkg/redis_client"
)

const (
	consumerCount = 2
	batchSize     = 20
	batchTimeout  = 2 * time.Second

	monitorAddress = ":3333"
)

// RunConsumer attaches the batch consumers to the report queue and
// starts the pipeline monitor. Returns once consuming is underway;
// the caller owns shutdown via StopAllConsuming.
func RunConsumer() error {
	log.Info().Str("queue", QueueName).Msg("Starting feedback report consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
	if err != nil {
		return err
	}

	if err := queue.StartConsuming(consumerCount*batchSize, time.Second); err != nil {
		return err
	}

	for i := 0; i < consumerCount; i++ {
		tag := fmt.Sprintf("%s-%d", QueueName, i)
		if _, err := queue.AddBatchConsumer(tag, batchSize, batchTimeout, NewBatchConsumer()); err != nil {
			return err
		}
	}

	go serveMonitor()

	return nil
}

// PipelineStats is the consumer's view of the report queue, served as
// JSON from the monitor endpoint.
type PipelineStats struct {
	Queue     string `json:"queue"`
	Ready     int64  `json:"ready"`
	Rejected  int64  `json:"rejected"`
	Unacked   int64  `json:"unacked"`
	Consumers int64  `json:"consumers"`
}

func queuePipelineStats(stat rmq.QueueStat) PipelineStats {
	return PipelineStats{
		Queue:     QueueName,
		Ready:     stat.ReadyCount,
		Rejected:  stat.RejectedCount,
		Unacked:   stat.UnackedCount(),
		Consumers: stat.ConsumerCount(),
	}
}

func serveMonitor() {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", monitorStats)
	mux.HandleFunc("/health", monitorHealth)

	log.Info().Msgf("Pipeline monitor listening on http://localhost%s/stats", monitorAddress)
	if err := http.ListenAndServe(monitorAddress, mux); err != nil {
		log.Error().Err(err).Msg("Pipeline monitor stopped")
	}
}

func monitorStats(writer http.ResponseWriter, _ *http.Request) {
	stats, err := redis_client.QueueConnection.CollectStats([]string{QueueName})
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(queuePipelineStats(stats.QueueStats[QueueName]))
}

// monitorHealth pings both sides of the pipeline, the queue it drains
// and the store it writes to.
func monitorHealth(writer http.ResponseWriter, _ *http.Request) {
	if err := redis_client.Client.Ping(context.TODO()).Err(); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	if err := database.MongoGlobalInstance.Client.Ping(context.TODO(), nil); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}
