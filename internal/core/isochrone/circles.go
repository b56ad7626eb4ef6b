package isochrone

import (
	"math"
	"time"

	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

const circlePointCount = 18

// circlePolygons renders every reached stop still within timeLimit as an
// 18-sided disc centered on it, radius equal to however far could still be
// walked in the time left over.
func circlePolygons(data []sample, timeLimit time.Duration) [][]geospatial.WGS84 {
	var polygons [][]geospatial.WGS84
	for _, d := range data {
		if d.duration > timeLimit {
			continue
		}
		radius := geospatial.TimeToDistance(timeLimit-d.duration, WalkingSpeedKmh)
		polygons = append(polygons, circlePoints(d.coord, radius))
	}
	return polygons
}

func circlePoints(center geospatial.LV95, radius float64) []geospatial.WGS84 {
	points := make([]geospatial.WGS84, circlePointCount)
	step := 2 * math.Pi / circlePointCount
	for i := 0; i < circlePointCount; i++ {
		angle := float64(i) * step
		lv95 := geospatial.LV95{
			Easting:  center.Easting + radius*math.Cos(angle),
			Northing: center.Northing + radius*math.Sin(angle),
		}
		points[i] = geospatial.LV95ToWGS84(lv95)
	}
	return points
}
