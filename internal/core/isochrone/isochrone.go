// Package isochrone computes reachable-area maps: starting from a
// geographic point, walk to the nearest stop, run the routing engine's
// one-to-many mode out to a time budget, then render the reached stops as
// either circular discs or contoured boundary rings.
package isochrone

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/routing"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

type sample struct {
	coord    geospatial.LV95
	duration time.Duration
}

// ComputeIsochrones finds the nearest Swiss stop to (originLat, originLon),
// adjusts the departure instant and remaining time budget for the walk to
// that stop, runs the routing engine's reachability search, and renders
// one isochrone per multiple of isochroneInterval up to timeLimit.
func ComputeIsochrones(ctx context.Context, tt *timetable.Timetable, originLat, originLon float64, departureAt time.Time, timeLimit, isochroneInterval time.Duration, mode DisplayMode) (*Map, error) {
	origin := geospatial.WGS84{Latitude: originLat, Longitude: originLon}

	stop, err := findNearestStop(tt, origin)
	if err != nil {
		return nil, err
	}

	adjustedDepartureAt, adjustedTimeLimit := adjustDepartureAt(origin, departureAt, timeLimit, *stop.WGS84)

	routes := routing.FindReachableStopsWithinTimeLimit(tt, stop.ID, adjustedDepartureAt, adjustedTimeLimit)

	inSwitzerland := routes[:0]
	for _, r := range routes {
		if len(r.Sections) == 0 {
			// the origin pseudo-entry: isochrone.go adds its own below, keyed
			// to the walking origin rather than the nearest stop.
			continue
		}
		last := r.Sections[len(r.Sections)-1]
		if strings.HasPrefix(strconv.Itoa(last.ArrivalStopID), routing.DefaultStopIDPrefix) {
			inSwitzerland = append(inSwitzerland, r)
		}
	}
	routes = inSwitzerland

	originLV95 := geospatial.WGS84ToLV95(origin)
	routes = append(routes, domain.RouteResult{
		ArrivalAt: departureAt,
		Sections: []domain.RouteSectionResult{
			{ArrivalStopLV95: &originLV95},
		},
	})

	data := collectSamples(routes, departureAt)
	if len(data) == 0 {
		return nil, fmt.Errorf("isochrone: no reachable stops with known coordinates")
	}

	minLV95, maxLV95 := boundingBox(data, timeLimit)

	var grid []sample
	var numX, numY int
	if mode == ContourLine {
		grid, numX, numY, err = buildGrid(ctx, data, minLV95, maxLV95)
		if err != nil {
			return nil, err
		}
	}

	isochroneCount := int(timeLimit.Minutes()) / int(isochroneInterval.Minutes())

	isochrones := make([]Isochrone, 0, isochroneCount)
	for i := 0; i < isochroneCount; i++ {
		stepLimit := isochroneInterval * time.Duration(i+1)

		var polygons [][]geospatial.WGS84
		switch mode {
		case Circles:
			polygons = circlePolygons(data, stepLimit)
		case ContourLine:
			polygons = contourPolygons(grid, numX, numY, minLV95, stepLimit)
		}

		isochrones = append(isochrones, Isochrone{
			Polygons:         polygons,
			TimeLimitMinutes: uint32(stepLimit.Minutes()),
		})
	}

	return &Map{
		Isochrones:         isochrones,
		DepartureStopCoord: *stop.WGS84,
		BoundingBox: BoundingBox{
			Min: geospatial.LV95ToWGS84(minLV95),
			Max: geospatial.LV95ToWGS84(maxLV95),
		},
	}, nil
}

func findNearestStop(tt *timetable.Timetable, origin geospatial.WGS84) (*domain.Stop, error) {
	candidates := tt.StopsWithPrefix(routing.DefaultStopIDPrefix)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("isochrone: no stops available under prefix %q", routing.DefaultStopIDPrefix)
	}

	best := candidates[0]
	bestDistance := geospatial.Haversine(origin, *best.WGS84)
	for _, s := range candidates[1:] {
		d := geospatial.Haversine(origin, *s.WGS84)
		if d < bestDistance {
			best, bestDistance = s, d
		}
	}
	return best, nil
}

// adjustDepartureAt accounts for the walk from origin to the nearest stop:
// the search departs that much later, and has that much less time budget
// left to spend riding transit.
func adjustDepartureAt(origin geospatial.WGS84, departureAt time.Time, timeLimit time.Duration, stopCoord geospatial.WGS84) (time.Time, time.Duration) {
	distanceMeters := geospatial.Haversine(origin, stopCoord) * 1000.0
	walk := geospatial.DistanceToTime(distanceMeters, WalkingSpeedKmh)
	return departureAt.Add(walk), timeLimit - walk
}

func collectSamples(routes []domain.RouteResult, departureAt time.Time) []sample {
	out := make([]sample, 0, len(routes))
	for _, r := range routes {
		if len(r.Sections) == 0 {
			continue
		}
		last := r.Sections[len(r.Sections)-1]
		if last.ArrivalStopLV95 == nil {
			continue
		}
		out = append(out, sample{coord: *last.ArrivalStopLV95, duration: r.ArrivalAt.Sub(departureAt)})
	}
	return out
}

// boundingBox pads each reached stop outward by however far could still be
// walked within timeLimit after the ride already spent, then takes the
// envelope over every stop.
func boundingBox(data []sample, timeLimit time.Duration) (geospatial.LV95, geospatial.LV95) {
	min := geospatial.LV95{Easting: math.Inf(1), Northing: math.Inf(1)}
	max := geospatial.LV95{Easting: math.Inf(-1), Northing: math.Inf(-1)}

	for _, d := range data {
		remaining := timeLimit - d.duration
		pad := geospatial.TimeToDistance(remaining, WalkingSpeedKmh)

		min.Easting = math.Min(min.Easting, d.coord.Easting-pad)
		max.Easting = math.Max(max.Easting, d.coord.Easting+pad)
		min.Northing = math.Min(min.Northing, d.coord.Northing-pad)
		max.Northing = math.Max(max.Northing, d.coord.Northing+pad)
	}
	return min, max
}
