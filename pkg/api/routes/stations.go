package routes

import (
	"math"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func StationsRouter(router fiber.Router) {
	router.Get("/", listStations)
	router.Get("/nearest", getNearestStations)
}

func listStations(c *fiber.Ctx) error {
	stations := lineRing.Stations()

	stationsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, stations)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce stations",
		})
	}

	return c.JSON(fiber.Map{
		"line":     "2",
		"stations": stationsReduced,
	})
}

type nearbyStation struct {
	index          int
	distanceMetres float64
}

func getNearestStations(c *fiber.Ctx) error {
	latitude, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	longitude, lngErr := strconv.ParseFloat(c.Query("lng"), 64)

	if latErr != nil || lngErr != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "lat and lng must both be provided",
		})
	}

	stations := lineRing.Stations()

	var nearby []nearbyStation
	for i, station := range stations {
		if station.Location == nil {
			continue
		}

		nearby = append(nearby, nearbyStation{
			index:          i,
			distanceMetres: haversineMetres(latitude, longitude, station.Location.Latitude, station.Location.Longitude),
		})
	}

	if len(nearby) == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No station locations are available",
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].distanceMetres < nearby[j].distanceMetres
	})

	if len(nearby) > 3 {
		nearby = nearby[:3]
	}

	results := make([]fiber.Map, 0, len(nearby))
	for _, candidate := range nearby {
		stationReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, stations[candidate.index])

		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce station",
			})
		}

		results = append(results, fiber.Map{
			"station":         stationReduced,
			"distance_metres": math.Round(candidate.distanceMetres),
		})
	}

	return c.JSON(fiber.Map{
		"stations": results,
	})
}

const earthRadiusMetres = 6371000

func haversineMetres(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	rad := math.Pi / 180

	deltaLat := (lat2 - lat1) * rad
	deltaLon := (lon2 - lon1) * rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return earthRadiusMetres * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
