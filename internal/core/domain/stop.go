package domain

import "github.com/samirrijal/bilbopass/internal/pkg/geospatial"

// ExchangeTimePair is a stop's own default exchange time, selected by
// transport-type designation: the first value applies between two
// intercity ("IC") services, the second to everything else.
type ExchangeTimePair struct {
	ICToIC int16
	Other  int16
}

// Stop is a transit stop or station.
type Stop struct {
	ID                       int
	Name                     string
	LV95                     *geospatial.LV95
	WGS84                    *geospatial.WGS84
	CanBeUsedAsExchangePoint bool
	DefaultExchangeTime      *ExchangeTimePair
}

// StopConnection is a directed, fixed-duration pedestrian transfer between
// two stops.
type StopConnection struct {
	StopID1         int
	StopID2         int
	DurationMinutes int16
}
