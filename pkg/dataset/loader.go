package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

type congestionRecord struct {
	Station         string  `csv:"station"`
	DayType         string  `csv:"day_type"`
	Hour            int     `csv:"hour"`
	Car             int     `csv:"car"`
	CongestionRatio float64 `csv:"congestion_ratio"`
	AlightingRate   float64 `csv:"alighting_rate"`
}

// LoadCSV loads congestion/alighting samples from the normalized
// long-format CSV produced by the ingestion pipeline. Bad rows are
// skipped with a warning; the fallback chain absorbs the gaps.
func (s *Store) LoadCSV(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	var records []congestionRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return err
	}

	loaded := 0
	for _, record := range records {
		day, ok := ParseDayOfWeek(record.DayType)
		if !ok {
			log.Warn().Str("station", record.Station).Str("day_type", record.DayType).Msg("Skipping sample with unknown day type")
			continue
		}

		err := s.AddSample(record.Station, record.Hour, day, record.Car, record.CongestionRatio, record.AlightingRate)
		if err != nil {
			log.Warn().Err(err).Str("station", record.Station).Msg("Skipping invalid congestion sample")
			continue
		}

		loaded++
	}

	log.Info().Int("records", len(records)).Int("loaded", loaded).Str("path", path).Msg("Loaded congestion dataset")

	return nil
}
