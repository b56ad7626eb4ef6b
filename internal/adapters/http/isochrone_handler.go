package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/bilbopass/internal/core/isochrone"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
	"github.com/samirrijal/bilbopass/internal/pkg/metrics"
)

// coordDTO renders a WGS84 coordinate as the spec's [lat, lng] wire tuple.
type coordDTO [2]float64

func toCoordDTO(c geospatial.WGS84) coordDTO {
	return coordDTO{c.Latitude, c.Longitude}
}

type isochroneDTO struct {
	Polygons  [][]coordDTO `json:"polygons"`
	TimeLimit uint32       `json:"time_limit"`
}

type isochroneMapDTO struct {
	Isochrones         []isochroneDTO `json:"isochrones"`
	DepartureStopCoord coordDTO       `json:"departure_stop_coord"`
	BoundingBox        [2]coordDTO    `json:"bounding_box"`
}

func toIsochroneMapDTO(m *isochrone.Map) isochroneMapDTO {
	dto := isochroneMapDTO{
		Isochrones:         make([]isochroneDTO, len(m.Isochrones)),
		DepartureStopCoord: toCoordDTO(m.DepartureStopCoord),
		BoundingBox: [2]coordDTO{
			toCoordDTO(m.BoundingBox.Min),
			toCoordDTO(m.BoundingBox.Max),
		},
	}
	for i, iso := range m.Isochrones {
		polygons := make([][]coordDTO, len(iso.Polygons))
		for j, ring := range iso.Polygons {
			points := make([]coordDTO, len(ring))
			for k, p := range ring {
				points[k] = toCoordDTO(p)
			}
			polygons[j] = points
		}
		dto.Isochrones[i] = isochroneDTO{Polygons: polygons, TimeLimit: iso.TimeLimitMinutes}
	}
	return dto
}

// IsochroneHandler serves GET /isochrones.
func IsochroneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("origin_point_latitude"), 64)
		if err != nil {
			return errBadRequest(c, "origin_point_latitude must be a number")
		}
		lon, err := strconv.ParseFloat(c.Query("origin_point_longitude"), 64)
		if err != nil {
			return errBadRequest(c, "origin_point_longitude must be a number")
		}

		departureDate, err := time.Parse("2006-01-02", c.Query("departure_date"))
		if err != nil {
			return errBadRequest(c, "departure_date must be YYYY-MM-DD")
		}
		meta := deps.Timetable.Metadata()
		if departureDate.Before(meta.StartDate) || departureDate.After(meta.EndDate) {
			return errBadRequest(c, "departure_date is outside the timetable's validity window")
		}

		departureTimeOfDay, err := time.Parse("15:04:05", c.Query("departure_time"))
		if err != nil {
			return errBadRequest(c, "departure_time must be HH:MM:SS")
		}
		departureAt := time.Date(
			departureDate.Year(), departureDate.Month(), departureDate.Day(),
			departureTimeOfDay.Hour(), departureTimeOfDay.Minute(), departureTimeOfDay.Second(), 0,
			time.UTC,
		)

		timeLimitMin, err := strconv.Atoi(c.Query("time_limit"))
		if err != nil || timeLimitMin <= 0 {
			return errBadRequest(c, "time_limit must be a positive integer number of minutes")
		}
		isochroneIntervalMin, err := strconv.Atoi(c.Query("isochrone_interval"))
		if err != nil || isochroneIntervalMin <= 0 {
			return errBadRequest(c, "isochrone_interval must be a positive integer number of minutes")
		}
		if timeLimitMin%isochroneIntervalMin != 0 {
			return errBadRequest(c, "time_limit must be a multiple of isochrone_interval")
		}

		displayMode, ok := isochrone.ParseDisplayMode(c.Query("display_mode"))
		if !ok {
			return errBadRequest(c, "display_mode must be \"circles\" or \"contour_line\"")
		}

		cacheKey := fmt.Sprintf("isochrones:%.6f:%.6f:%s:%d:%d:%s",
			lat, lon, departureAt.Format(time.RFC3339), timeLimitMin, isochroneIntervalMin, displayMode.String())
		if deps.Cache != nil {
			if data, hit, err := deps.Cache.Get(c.Context(), cacheKey); err == nil && hit {
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Send(data)
			}
		}

		start := time.Now()
		result, err := isochrone.ComputeIsochrones(
			c.Context(), deps.Timetable, lat, lon, departureAt,
			time.Duration(timeLimitMin)*time.Minute, time.Duration(isochroneIntervalMin)*time.Minute,
			displayMode,
		)
		elapsed := time.Since(start)

		metrics.IsochroneQueriesTotal.WithLabelValues(displayMode.String()).Inc()
		metrics.IsochroneQueryDuration.WithLabelValues(displayMode.String()).Observe(elapsed.Seconds())

		if deps.Publisher != nil {
			deps.Publisher.PublishIsochroneQuery(ports.IsochroneQueryEvent{
				OriginLatitude: lat, OriginLongitude: lon,
				TimeLimitMin: timeLimitMin, DisplayMode: displayMode.String(), Elapsed: elapsed,
			})
		}

		if err != nil {
			return errBadRequest(c, err.Error())
		}

		dto := toIsochroneMapDTO(result)

		if deps.Cache != nil {
			if data, err := json.Marshal(dto); err == nil {
				_ = deps.Cache.Set(c.Context(), cacheKey, data, 300)
			}
		}

		return c.JSON(dto)
	}
}
