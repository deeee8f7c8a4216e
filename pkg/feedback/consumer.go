package feedback

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"

	"github.com/metroseat/metroseat/pkg/database"
)

type BatchConsumer struct {
}

func NewBatchConsumer() *BatchConsumer {
	return &BatchConsumer{}
}

func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	var documents []interface{}

	for _, payload := range payloads {
		var report Report
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			log.Error().Err(err).Msg("Failed to decode feedback report")
			continue
		}

		log.Debug().Msg(pretty.Sprint(report))

		documents = append(documents, report)
	}

	if len(documents) > 0 {
		collection := database.GetCollection("feedback")
		if _, err := collection.InsertMany(context.Background(), documents); err != nil {
			log.Error().Err(err).Msg("Failed to store feedback reports")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume from feedback queue")
		}
	}
}
