package timetable

import (
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// ExchangeTime resolves the minimum minutes required to change from
// journeyID1 to journeyID2 at stopID, boarding journeyID2 at departureAt.
// Evaluated in the five-tier order documented on the data model: a
// journey-pair override, an administration-pair override at the stop, the
// stop's own default, an administration-pair override system-wide, and
// finally the system default.
func (t *Timetable) ExchangeTime(stopID, journeyID1, journeyID2 int, departureAt time.Time) int16 {
	if d, ok := t.exchangeTimeJourneyPair(stopID, journeyID1, journeyID2, departureAt); ok {
		return d
	}

	journey1 := t.Journey(journeyID1)
	journey2 := t.Journey(journeyID2)

	// Stop-scoped keys hold a *int, which a map lookup compares by address,
	// so they are matched by the pointed-to stop ID instead.
	for key, d := range t.exchangeTimesAdmin {
		if key.StopID != nil && *key.StopID == stopID &&
			key.Administration1 == journey1.Administration &&
			key.Administration2 == journey2.Administration {
			return d
		}
	}

	stop := t.Stop(stopID)
	if stop.DefaultExchangeTime != nil {
		return exchangeTimeForTransportTypes(*stop.DefaultExchangeTime, journey1.TransportType, journey2.TransportType)
	}

	if d, ok := t.exchangeTimesAdmin[ports.ExchangeAdminKey{
		StopID:          nil,
		Administration1: journey1.Administration,
		Administration2: journey2.Administration,
	}]; ok {
		return d
	}

	return exchangeTimeForTransportTypes(t.defaultExchangeTime, journey1.TransportType, journey2.TransportType)
}

// exchangeTimeJourneyPair implements the journey-pair tier: the first entry
// whose bitset contains the bit at the computed offset (or whose bitset is
// absent) wins. The "2 +" / "- 1" offset is a source-material convention
// (a 2-bit reserved prefix); preserve it exactly.
func (t *Timetable) exchangeTimeJourneyPair(stopID, journeyID1, journeyID2 int, departureAt time.Time) (int16, bool) {
	entries, ok := t.exchangeTimesJourney[ports.ExchangeJourneyKey{
		StopID:     stopID,
		JourneyID1: journeyID1,
		JourneyID2: journeyID2,
	}]
	if !ok {
		return 0, false
	}

	index := 2 + geospatial.CountDaysBetween(departureAt, t.metadata.EndDate) - 1

	for _, e := range entries {
		if e.BitFieldID == nil {
			return e.DurationMinutes, true
		}
		bf, ok := t.bitFieldsByID[*e.BitFieldID]
		if ok && bf.Active(index) {
			return e.DurationMinutes, true
		}
	}
	return 0, false
}

func exchangeTimeForTransportTypes(pair domain.ExchangeTimePair, t1, t2 domain.TransportType) int16 {
	if t1.Designation == "IC" && t2.Designation == "IC" {
		return pair.ICToIC
	}
	return pair.Other
}
