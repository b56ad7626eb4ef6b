package ports

import "time"

// JourneyQueryEvent records one plan-journey request, fire-and-forget, for
// downstream analytics consumers.
type JourneyQueryEvent struct {
	DepartureStopID int       `json:"departure_stop_id"`
	ArrivalStopID   int       `json:"arrival_stop_id"`
	DepartureAt     time.Time `json:"departure_at"`
	Found           bool      `json:"found"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// IsochroneQueryEvent records one isochrone request.
type IsochroneQueryEvent struct {
	OriginLatitude  float64       `json:"origin_latitude"`
	OriginLongitude float64       `json:"origin_longitude"`
	TimeLimitMin    int           `json:"time_limit_minutes"`
	DisplayMode     string        `json:"display_mode"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

// QueryEventPublisher ships query telemetry to a message broker. Publish
// failures are logged by the implementation, not surfaced to the caller —
// telemetry is best-effort and must never slow down or fail a query.
type QueryEventPublisher interface {
	PublishJourneyQuery(JourneyQueryEvent)
	PublishIsochroneQuery(IsochroneQueryEvent)
}
