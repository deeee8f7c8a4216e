package routes

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/metroseat/metroseat/pkg/calibration"
	"github.com/metroseat/metroseat/pkg/dataset"
	"github.com/metroseat/metroseat/pkg/feedback"
	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/seatscore"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	ring := line.Line2()
	data := dataset.NewStore(ring, seatscore.TotalCars)
	for car := 1; car <= seatscore.TotalCars; car++ {
		for _, station := range []string{"강남", "역삼", "선릉"} {
			if err := data.AddSample(station, 8, dataset.DayTypeWeekday, car, 1.0+0.1*float64(car), 0.15); err != nil {
				t.Fatal(err)
			}
		}
	}

	calibrations := calibration.NewStore()
	Setup(ring, calibrations, seatscore.New(ring, data, calibrations))

	app := fiber.New()
	group := app.Group("/core")
	group.Get("version", APIVersion)
	StationsRouter(group.Group("/stations"))
	RecommendRouter(group.Group("/recommend"))
	CalibrateRouter(group.Group("/calibrate"))
	SensitivityRouter(group.Group("/sensitivity"))
	StabilityRouter(group.Group("/stability"))
	ValidateRouter(group.Group("/validate"))

	return app
}

func decodeBody(t *testing.T, response *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatal(err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("response is not a JSON object: %v (%s)", err, raw)
	}

	return body
}

func TestVersionRoute(t *testing.T) {
	app := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/version", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	if body["version"] != "v0.1" {
		t.Errorf("unexpected version %v", body["version"])
	}
}

func TestStationsRoute(t *testing.T) {
	app := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/stations", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	stations, ok := body["stations"].([]interface{})
	if !ok || len(stations) != 43 {
		t.Errorf("expected 43 stations, got %v", body["stations"])
	}
}

func TestNearestStationsRoute(t *testing.T) {
	app := newTestApp(t)

	// Right on top of 강남.
	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/stations/nearest?lat=37.4979&lng=127.0276", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	results, ok := body["stations"].([]interface{})
	if !ok || len(results) != 3 {
		t.Fatalf("expected the 3 nearest stations, got %v", body["stations"])
	}

	first := results[0].(map[string]interface{})
	station := first["station"].(map[string]interface{})
	if station["id"] != "강남" {
		t.Errorf("expected 강남 first, got %v", station["id"])
	}
	if first["distance_metres"].(float64) > 100 {
		t.Errorf("query point sits on the station, distance %v", first["distance_metres"])
	}

	response, err = app.Test(httptest.NewRequest(http.MethodGet, "/core/stations/nearest", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("missing coordinates should 400, got %d", response.StatusCode)
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, payload string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request)
	if err != nil {
		t.Fatal(err)
	}

	return response
}

func TestRecommendRoute(t *testing.T) {
	app := newTestApp(t)

	response := postJSON(t, app, "/core/recommend",
		`{"boarding": "강남", "destination": "삼성", "hour": 8, "day_of_week": "MON"}`)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	if _, ok := body["best_car"]; !ok {
		t.Error("response should carry a best_car")
	}
	cars, ok := body["car_scores"].([]interface{})
	if !ok || len(cars) != seatscore.TotalCars {
		t.Errorf("expected %d car scores, got %v", seatscore.TotalCars, body["car_scores"])
	}
	if first, ok := cars[0].(map[string]interface{}); ok {
		if _, present := first["contributions"]; present {
			t.Error("contributions should only appear with detailed=true")
		}
	}
}

func TestRecommendRouteDetailed(t *testing.T) {
	app := newTestApp(t)

	response := postJSON(t, app, "/core/recommend?detailed=true",
		`{"boarding": "강남", "destination": "삼성", "hour": 8}`)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	cars := body["car_scores"].([]interface{})
	first := cars[0].(map[string]interface{})
	if _, present := first["contributions"]; !present {
		t.Error("detailed=true should include per-station contributions")
	}
}

func TestRecommendRouteValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		payload string
		status  int
	}{
		{`{"destination": "삼성", "hour": 8}`, http.StatusBadRequest},
		{`{"boarding": "강남", "destination": "삼성", "hour": 26}`, http.StatusBadRequest},
		{`{"boarding": "강남", "destination": "삼성", "hour": 8, "day_of_week": "BLURSDAY"}`, http.StatusBadRequest},
		{`{"boarding": "강남", "destination": "삼성", "hour": 8, "direction": "sideways"}`, http.StatusBadRequest},
		{`{"boarding": "판교", "destination": "삼성", "hour": 8}`, http.StatusNotFound},
		{`{"boarding": "강남", "destination": "강남역", "hour": 8}`, http.StatusBadRequest},
	}

	for i, c := range cases {
		response := postJSON(t, app, "/core/recommend", c.payload)
		if response.StatusCode != c.status {
			t.Errorf("case %d: expected %d, got %d", i, c.status, response.StatusCode)
		}
	}
}

func TestValidateRouteWithoutStore(t *testing.T) {
	app := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/validate", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("no feedback store should 503, got %d", response.StatusCode)
	}
}

func TestComputeValidationMetrics(t *testing.T) {
	newTestApp(t) // wires the shared engine

	reports := []feedback.Report{
		{Boarding: "강남", Destination: "삼성", Hour: 8, Car: 1, RecommendedCar: 1, Satisfaction: 5, GotSeat: true},
		{Boarding: "강남", Destination: "삼성", Hour: 8, Car: 2, RecommendedCar: 2, Satisfaction: 4, GotSeat: true},
		{Boarding: "강남", Destination: "삼성", Hour: 8, Car: 5, RecommendedCar: 5, Satisfaction: 3},
		{Boarding: "강남", Destination: "삼성", Hour: 8, Car: 8, RecommendedCar: 8, Satisfaction: 2},
		{Boarding: "강남", Destination: "삼성", Hour: 8, Car: 10, RecommendedCar: 10, Satisfaction: 1},
		{Boarding: "강남", Destination: "삼성", Hour: 8, Car: 3, RecommendedCar: 3, Satisfaction: 4, GotSeat: true},
		// Off the line, must be skipped without poisoning the rest.
		{Boarding: "판교", Destination: "삼성", Hour: 8, Car: 1, Satisfaction: 5},
	}

	metrics := computeValidationMetrics(reports)

	if metrics.TotalReports != 7 {
		t.Errorf("expected 7 total reports, got %d", metrics.TotalReports)
	}
	if metrics.Skipped != 1 {
		t.Errorf("expected 1 skipped report, got %d", metrics.Skipped)
	}
	if metrics.RatedReports != 7 {
		t.Errorf("all reports carry a rating, got %d", metrics.RatedReports)
	}
	if metrics.MeanSatisfaction < 1 || metrics.MeanSatisfaction > 5 {
		t.Errorf("mean satisfaction out of scale: %f", metrics.MeanSatisfaction)
	}

	expectedSeatRate := 3.0 / 7.0
	if math.Abs(metrics.SeatSuccessRate-expectedSeatRate) > 1e-9 {
		t.Errorf("expected seat success rate %f, got %f", expectedSeatRate, metrics.SeatSuccessRate)
	}

	if metrics.Top1Accuracy < 0 || metrics.Top1Accuracy > 1 {
		t.Errorf("top1 accuracy out of range: %f", metrics.Top1Accuracy)
	}

	if metrics.RankCorrelation == nil {
		t.Fatal("six rated pairs should produce a rank correlation")
	}
	if math.Abs(*metrics.RankCorrelation) > 1 {
		t.Errorf("correlation out of range: %f", *metrics.RankCorrelation)
	}

	if metrics.MeanScoreSatisfied == nil || metrics.MeanScoreUnsatisfied == nil {
		t.Error("both satisfaction cohorts have members, means should be present")
	}
}

func TestSpearmanRankTransform(t *testing.T) {
	ranks := averageRanks([]float64{3, 1, 2, 3})
	expected := []float64{3.5, 1, 2, 3.5}
	for i := range expected {
		if math.Abs(ranks[i]-expected[i]) > 1e-9 {
			t.Errorf("rank %d: expected %f, got %f", i, expected[i], ranks[i])
		}
	}

	correlation, err := spearman([]float64{1, 2, 3, 4, 5}, []float64{10, 20, 30, 40, 50})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(correlation-1) > 1e-9 {
		t.Errorf("monotone data should correlate perfectly, got %f", correlation)
	}
}

func TestCalibrateRoutes(t *testing.T) {
	app := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/core/calibrate", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	body := decodeBody(t, response)
	if body["beta"] != 0.3 {
		t.Errorf("expected default beta 0.3, got %v", body["beta"])
	}

	response = postJSON(t, app, "/core/calibrate", `{"beta": 0.45}`)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	body = decodeBody(t, response)
	if body["version"] != float64(1) {
		t.Errorf("expected version 1, got %v", body["version"])
	}

	response = postJSON(t, app, "/core/calibrate", `{"beta": 9.0}`)
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("out-of-range beta should 400, got %d", response.StatusCode)
	}

	response = postJSON(t, app, "/core/calibrate", `{"period_multipliers": {"lunch_rush": 1.0}}`)
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown period should 400, got %d", response.StatusCode)
	}
}

func TestSensitivityRoute(t *testing.T) {
	app := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/core/sensitivity?boarding=강남&destination=삼성&hour=8&parameter=beta&steps=5", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	points, ok := body["points"].([]interface{})
	if !ok || len(points) != 5*seatscore.TotalCars {
		t.Errorf("expected %d points, got %v", 5*seatscore.TotalCars, len(points))
	}

	response, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/core/sensitivity?boarding=강남&destination=삼성&parameter=alpha", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("unsweepable parameter should 400, got %d", response.StatusCode)
	}
}

func TestStabilityRoute(t *testing.T) {
	app := newTestApp(t)

	response, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/core/stability?boarding=강남&destination=삼성&hour=8&trials=10&seed=3", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}

	body := decodeBody(t, response)
	if body["trials"] != float64(10) {
		t.Errorf("expected 10 trials, got %v", body["trials"])
	}

	response, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/core/stability?boarding=강남&destination=삼성&trials=10000", nil))
	if err != nil {
		t.Fatal(err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("excessive trial counts should 400, got %d", response.StatusCode)
	}
}
