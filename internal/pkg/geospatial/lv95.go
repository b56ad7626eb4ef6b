package geospatial

import "math"

// LV95 is the Swiss projected coordinate system: easting/northing in metres,
// origin (2'600'000, 1'200'000).
type LV95 struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// WGS84 is the geodetic coordinate system: latitude/longitude in decimal degrees.
type WGS84 struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LV95ToWGS84 converts projected coordinates to geodetic ones using the
// published Swisstopo approximate polynomial.
// https://github.com/antistatique/swisstopo
func LV95ToWGS84(c LV95) WGS84 {
	yAux := (c.Easting - 2600000.0) / 1000000.0
	xAux := (c.Northing - 1200000.0) / 1000000.0

	lat := 16.9023892 +
		3.238272*xAux -
		0.270978*yAux*yAux -
		0.002528*xAux*xAux -
		0.0447*yAux*yAux*xAux -
		0.0140*xAux*xAux*xAux
	lat = lat * 100.0 / 36.0

	lon := 2.6779094 +
		4.728982*yAux +
		0.791484*yAux*xAux +
		0.1306*yAux*xAux*xAux -
		0.0436*yAux*yAux*yAux
	lon = lon * 100.0 / 36.0

	return WGS84{Latitude: lat, Longitude: lon}
}

// WGS84ToLV95 converts geodetic coordinates to projected ones using the
// published Swisstopo approximate polynomial.
// https://github.com/antistatique/swisstopo
func WGS84ToLV95(c WGS84) LV95 {
	lat := degToSex(c.Latitude)
	lon := degToSex(c.Longitude)

	phi := degToSec(lat)
	lambda := degToSec(lon)

	phiAux := (phi - 169028.66) / 10000.0
	lambdaAux := (lambda - 26782.5) / 10000.0

	easting := 2600072.37 +
		211455.93*lambdaAux -
		10938.51*lambdaAux*phiAux -
		0.36*lambdaAux*phiAux*phiAux -
		44.54*lambdaAux*lambdaAux*lambdaAux

	northing := 1200147.07 +
		308807.95*phiAux +
		3745.25*lambdaAux*lambdaAux +
		76.63*phiAux*phiAux -
		194.56*lambdaAux*lambdaAux*phiAux +
		119.79*phiAux*phiAux*phiAux

	return LV95{Easting: easting, Northing: northing}
}

func degToSex(angle float64) float64 {
	deg := math.Trunc(angle)
	min := math.Trunc((angle - deg) * 60.0)
	sec := ((angle-deg)*60.0 - min) * 60.0
	return deg + min/100.0 + sec/10000.0
}

func degToSec(angle float64) float64 {
	deg := math.Trunc(angle)
	min := math.Trunc((angle - deg) * 100.0)
	sec := ((angle-deg)*100.0 - min) * 100.0
	return sec + min*60.0 + deg*3600.0
}

// DistanceLV95 is the planar Euclidean distance between two LV95 points, in
// metres. Intentionally not the same metric as Haversine below — the origin
// search uses great-circle distance, the isochrone grid uses this one. See
// DESIGN.md; do not unify them.
func DistanceLV95(a, b LV95) float64 {
	de := b.Easting - a.Easting
	dn := b.Northing - a.Northing
	return math.Sqrt(de*de + dn*dn)
}
