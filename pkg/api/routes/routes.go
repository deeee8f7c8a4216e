package routes

import (
	"github.com/metroseat/metroseat/pkg/calibration"
	"github.com/metroseat/metroseat/pkg/line"
	"github.com/metroseat/metroseat/pkg/seatscore"
)

var (
	lineRing     *line.Ring
	calibrations *calibration.Store
	engine       *seatscore.Engine
)

// Setup wires the shared scoring state into the route handlers. Must
// run before the server starts listening.
func Setup(ring *line.Ring, store *calibration.Store, scoringEngine *seatscore.Engine) {
	lineRing = ring
	calibrations = store
	engine = scoringEngine
}
