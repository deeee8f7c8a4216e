package feedback

import (
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"

	"github.com/metroseat/metroseat/pkg/redis_client"
)

const QueueName = "metroseat-feedback"

// Report is one rider's account of how a recommendation worked out.
// Car is the car actually ridden; RecommendedCar is what the service
// suggested at the time. Reports never feed back into scoring
// directly; the collection exists for model validation.
type Report struct {
	Boarding    string `json:"boarding" bson:"boarding"`
	Destination string `json:"destination" bson:"destination"`
	Hour        int    `json:"hour" bson:"hour"`
	DayOfWeek   string `json:"day_of_week,omitempty" bson:"day_of_week,omitempty"`
	Car         int    `json:"car" bson:"car"`

	RecommendedCar int `json:"recommended_car,omitempty" bson:"recommended_car,omitempty"`
	// Satisfaction is a 1-5 rating; 0 means the rider skipped it.
	Satisfaction int `json:"satisfaction,omitempty" bson:"satisfaction,omitempty"`

	GotSeat     bool   `json:"got_seat" bson:"got_seat"`
	SeatMinutes int    `json:"seat_minutes,omitempty" bson:"seat_minutes,omitempty"`
	Comment     string `json:"comment,omitempty" bson:"comment,omitempty"`

	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

var reportQueue rmq.Queue

// Setup opens the feedback queue. Requires a connected
// redis_client.QueueConnection.
func Setup() error {
	queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
	if err != nil {
		return err
	}

	reportQueue = queue

	return nil
}

func Enabled() bool {
	return reportQueue != nil
}

func Publish(report Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	return reportQueue.PublishBytes(payload)
}
