package calibration

import (
	"fmt"
	"os"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/metroseat/metroseat/pkg/line"
)

// InvalidParameterError rejects calibration writes naming unknown
// fields or out-of-range values.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid calibration parameter %q: %s", e.Field, e.Reason)
}

// Update is a partial calibration write. Pointer fields and map
// entries that are present get applied; everything else is left alone.
// Only the whitelisted fields below exist - anything structural about
// the model is not tunable at runtime.
type Update struct {
	Beta  *float64 `json:"beta,omitempty" yaml:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty" yaml:"gamma,omitempty"`
	Delta *float64 `json:"delta,omitempty" yaml:"delta,omitempty"`

	FacilityWeights   map[string]float64 `json:"facility_weights,omitempty" yaml:"facility_weights,omitempty"`
	PeriodMultipliers map[string]float64 `json:"period_multipliers,omitempty" yaml:"period_multipliers,omitempty"`
}

func (u Update) validate() error {
	if u.Beta != nil && (*u.Beta < 0 || *u.Beta > 2) {
		return &InvalidParameterError{Field: "beta", Reason: "must be within [0, 2]"}
	}
	if u.Gamma != nil && (*u.Gamma <= 0 || *u.Gamma > 1) {
		return &InvalidParameterError{Field: "gamma", Reason: "must be within (0, 1]"}
	}
	if u.Delta != nil && (*u.Delta < 0 || *u.Delta > 1) {
		return &InvalidParameterError{Field: "delta", Reason: "must be within [0, 1]"}
	}

	for name, weight := range u.FacilityWeights {
		if !knownFacility(name) {
			return &InvalidParameterError{Field: "facility_weights." + name, Reason: "unknown facility type"}
		}
		if weight < 0 || weight > 5 {
			return &InvalidParameterError{Field: "facility_weights." + name, Reason: "must be within [0, 5]"}
		}
	}

	for name, multiplier := range u.PeriodMultipliers {
		if !knownPeriod(name) {
			return &InvalidParameterError{Field: "period_multipliers." + name, Reason: "unknown time period"}
		}
		if multiplier <= 0 || multiplier > 3 {
			return &InvalidParameterError{Field: "period_multipliers." + name, Reason: "must be within (0, 3]"}
		}
	}

	return nil
}

func knownFacility(name string) bool {
	for _, facility := range knownFacilities {
		if string(facility) == name {
			return true
		}
	}
	return false
}

func knownPeriod(name string) bool {
	for _, period := range knownPeriods {
		if period == name {
			return true
		}
	}
	return false
}

// Store holds the process-wide calibration behind a single-writer
// mutex. Reads hand out deep copies so callers can never mutate shared
// state or observe a half-applied write.
type Store struct {
	mutex   sync.Mutex
	current Calibration
}

func NewStore() *Store {
	return &Store{current: Default()}
}

// Get returns an immutable snapshot of the current calibration.
func (s *Store) Get() Calibration {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.current.Clone()
}

// Set validates and applies a partial update, bumping the version.
// Cache invalidation is deliberately the caller's job so the store
// stays free of side effects.
func (s *Store) Set(update Update) (uint64, error) {
	if err := update.validate(); err != nil {
		return 0, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.current.Clone()

	if update.Beta != nil {
		next.Beta = *update.Beta
	}
	if update.Gamma != nil {
		next.Gamma = *update.Gamma
	}
	if update.Delta != nil {
		next.Delta = *update.Delta
	}

	for name, weight := range update.FacilityWeights {
		next.FacilityWeights[line.FacilityType(name)] = weight
	}
	for name, multiplier := range update.PeriodMultipliers {
		next.PeriodMultipliers[name] = multiplier
	}

	next.Version = s.current.Version + 1
	s.current = next

	return next.Version, nil
}

// LoadYAML applies deployment overrides from a calibration file at
// startup. A missing file is not an error.
func (s *Store) LoadYAML(path string) error {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No calibration overrides file")
		return nil
	}
	if err != nil {
		return err
	}

	var update Update
	if err := yaml.Unmarshal(contents, &update); err != nil {
		return err
	}

	version, err := s.Set(update)
	if err != nil {
		return err
	}

	log.Info().Str("path", path).Uint64("version", version).Msg("Applied calibration overrides")

	return nil
}

// Clone deep-copies a calibration so snapshots never share maps.
func (c Calibration) Clone() Calibration {
	var clone Calibration
	if err := copier.CopyWithOption(&clone, &c, copier.Option{DeepCopy: true}); err != nil {
		// Copying a plain value struct cannot fail at runtime; treat it
		// as a programming error.
		panic(err)
	}

	return clone
}
