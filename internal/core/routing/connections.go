package routing

import (
	"sort"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// GetConnections branches route onto every journey departing its arrival
// stop that next_departures admits, skipping journeys already seen at a
// shallower connection level (journeysToIgnore) and any journey whose
// extension fails (terminus reached, stop already visited).
func GetConnections(tt *timetable.Timetable, route *Route, journeysToIgnore map[int]struct{}) []*Route {
	previousJourneyID := route.LastSection().JourneyID()

	candidates := NextDepartures(tt, route.ArrivalStopID(), route.ArrivalAt(), routeFingerprints(tt, route), previousJourneyID)

	out := make([]*Route, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := journeysToIgnore[c.journey.ID]; skip {
			continue
		}
		if extended := route.Extend(tt, c.journey.ID, c.departureAt, true); extended != nil {
			out = append(out, extended)
		}
	}
	return out
}

type departureCandidate struct {
	journey     *domain.Journey
	departureAt time.Time
}

// NextDepartures enumerates the journeys boardable at departureStopID no
// earlier than departureAt: same-day journeys bounded either by 08:00 (if
// departureAt is before 08:00) or by a 4-hour window, plus next-day
// journeys up to next-day 08:00 if the same day's last relevant departure
// falls within 4 hours of departureAt. routesToIgnore collapses journeys
// that share a route suffix from departureStopID (keeping only the
// earliest), and previousJourneyID — when set — enforces the exchange-time
// floor for connecting from it.
func NextDepartures(tt *timetable.Timetable, departureStopID int, departureAt time.Time, routesToIgnore map[uint64]struct{}, previousJourneyID *int) []departureCandidate {
	journeys1, maxDepartureAt1 := journeysDepartingOn(tt, departureAt, departureStopID)
	maxDepartureAt1Adjusted := maxDepartureAt1.Add(-4 * time.Hour)

	var journeys2 []departureCandidate
	var maxDepartureAt time.Time
	if departureAt.After(maxDepartureAt1Adjusted) {
		nextDay := departureAt.AddDate(0, 0, 1)
		journeys2, _ = journeysDepartingOn(tt, nextDay, departureStopID)
		maxDepartureAt = time.Date(nextDay.Year(), nextDay.Month(), nextDay.Day(), 8, 0, 0, 0, nextDay.Location())
	} else {
		eightAM := time.Date(departureAt.Year(), departureAt.Month(), departureAt.Day(), 8, 0, 0, 0, departureAt.Location())
		if departureAt.Before(eightAM) {
			maxDepartureAt = eightAM
		} else {
			maxDepartureAt = departureAt.Add(4 * time.Hour)
		}
	}

	all := make([]departureCandidate, 0, len(journeys1)+len(journeys2))
	all = append(all, journeys1...)
	all = append(all, journeys2...)

	var windowed []departureCandidate
	for _, c := range all {
		if !c.departureAt.Before(departureAt) && !c.departureAt.After(maxDepartureAt) {
			windowed = append(windowed, c)
		}
	}
	sort.SliceStable(windowed, func(i, j int) bool { return windowed[i].departureAt.Before(windowed[j].departureAt) })

	if routesToIgnore == nil {
		routesToIgnore = make(map[uint64]struct{})
	}

	out := make([]departureCandidate, 0, len(windowed))
	for _, c := range windowed {
		hash, ok := c.journey.HashRoute(departureStopID)
		if !ok {
			continue
		}
		if _, seen := routesToIgnore[hash]; seen {
			continue
		}
		routesToIgnore[hash] = struct{}{}

		if previousJourneyID != nil {
			exchange := tt.ExchangeTime(departureStopID, *previousJourneyID, c.journey.ID, c.departureAt)
			if departureAt.Add(time.Duration(exchange)*time.Minute).After(c.departureAt) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// journeysDepartingOn returns every journey operating on date that departs
// departureStopID and is not already at its terminus there, paired with
// its departure instant, plus the latest such departure instant seen (or
// midnight if none).
func journeysDepartingOn(tt *timetable.Timetable, date time.Time, departureStopID int) ([]departureCandidate, time.Time) {
	maxDepartureAt := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	journeys := tt.OperatingJourneys(date, departureStopID)
	out := make([]departureCandidate, 0, len(journeys))
	for _, j := range journeys {
		if j.IsLastStop(departureStopID) {
			continue
		}
		departureAt := j.DepartureAtOf(departureStopID, date)
		if departureAt.After(maxDepartureAt) {
			maxDepartureAt = departureAt
		}
		out = append(out, departureCandidate{journey: j, departureAt: departureAt})
	}
	return out, maxDepartureAt
}
