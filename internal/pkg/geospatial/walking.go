package geospatial

import "time"

// DistanceToTime converts a distance in meters to a walking duration at the
// given speed in km/h, rounding down to the second.
func DistanceToTime(distanceMeters, speedKmh float64) time.Duration {
	speedMps := speedKmh / 3.6
	return time.Duration(distanceMeters/speedMps) * time.Second
}

// TimeToDistance converts a walking duration to a distance in meters at the
// given speed in km/h.
func TimeToDistance(d time.Duration, speedKmh float64) float64 {
	speedMps := speedKmh / 3.6
	return d.Seconds() * speedMps
}
