package domain

import (
	"time"

	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// RouteResult is the externally-facing shape of a computed journey.
type RouteResult struct {
	DepartureAt time.Time             `json:"departure_at"`
	ArrivalAt   time.Time             `json:"arrival_at"`
	Sections    []RouteSectionResult  `json:"sections"`
}

// RouteSectionResult is one leg of a RouteResult. JourneyID, DepartureAt
// and ArrivalAt are nil for a walking section; DurationMinutes is nil for
// every transit section. The coordinate fields are set for both kinds and
// are nil only where the stop has no coordinates.
type RouteSectionResult struct {
	JourneyID               *int             `json:"journey_id,omitempty"`
	DepartureStopID          int              `json:"departure_stop_id"`
	DepartureStopLV95        *geospatial.LV95  `json:"departure_stop_lv95_coordinates,omitempty"`
	DepartureStopWGS84       *geospatial.WGS84 `json:"departure_stop_wgs84_coordinates,omitempty"`
	ArrivalStopID            int              `json:"arrival_stop_id"`
	ArrivalStopLV95          *geospatial.LV95  `json:"arrival_stop_lv95_coordinates,omitempty"`
	ArrivalStopWGS84         *geospatial.WGS84 `json:"arrival_stop_wgs84_coordinates,omitempty"`
	DepartureAt              *time.Time       `json:"departure_at,omitempty"`
	ArrivalAt                *time.Time       `json:"arrival_at,omitempty"`
	DurationMinutes          *int16           `json:"duration,omitempty"`
}

// IsWalkingTrip reports whether this section is a walking connector rather
// than a transit leg.
func (r RouteSectionResult) IsWalkingTrip() bool {
	return r.JourneyID == nil
}
