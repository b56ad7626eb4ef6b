package routing

import (
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// Extend grows the route onto journeyID, departing at the route's current
// arrival stop. date/isDepartureDate anchor the journey's cross-midnight
// wall-clock times (see domain.Journey.instantWithOrigin): isDepartureDate
// true means date is the boarding-stop's departure day; false means it's
// the boarding-stop's arrival day (used when extending a route in place
// past a prior alighting). Returns nil if the journey cannot be extended
// (already at its terminus, no exchange-capable stop or terminus lies
// ahead, or any stop it would pass through has already been visited and
// the new arrival stop is not the journey's own first stop).
func (r *Route) Extend(tt *timetable.Timetable, journeyID int, date time.Time, isDepartureDate bool) *Route {
	journey := tt.Journey(journeyID)

	if journey.IsLastStop(r.ArrivalStopID()) {
		return nil
	}

	last := r.LastSection()
	isSameJourney := last.journeyID != nil && *last.journeyID == journeyID

	newSection, newVisited, ok := findNextSection(tt, journey, r.ArrivalStopID(), date, isDepartureDate)
	if !ok {
		return nil
	}

	if r.HasVisitedAnyStops(newVisited) && newSection.arrivalStopID != journey.FirstStopID() {
		return nil
	}

	out := r.clone()
	if isSameJourney {
		li := len(out.sections) - 1
		out.sections[li].setArrivalStopID(newSection.arrivalStopID)
		out.sections[li].setArrivalAt(newSection.arrivalAt)
	} else {
		out.sections = append(out.sections, newSection)
	}
	for stopID := range newVisited {
		out.visitedStops[stopID] = struct{}{}
	}
	return out
}

// findNextSection walks journey's static route forward from
// departureStopID until it hits a stop usable as an exchange point or the
// journey's terminus, returning the section that would result and the set
// of stops passed through along the way.
func findNextSection(tt *timetable.Timetable, journey *domain.Journey, departureStopID int, date time.Time, isDepartureDate bool) (Section, map[int]struct{}, bool) {
	route := journey.Route

	i := 0
	for ; i < len(route); i++ {
		if route[i].StopID == departureStopID {
			break
		}
	}
	if i == len(route) {
		domain.Panicf("journey %d: stop %d not on route", journey.ID, departureStopID)
	}

	visited := make(map[int]struct{})
	for i++; i < len(route); i++ {
		stopID := route[i].StopID
		visited[stopID] = struct{}{}

		stop := tt.Stop(stopID)
		if stop.CanBeUsedAsExchangePoint || journey.IsLastStop(stopID) {
			arrivalAt := journey.ArrivalAtOfWithOrigin(stopID, date, isDepartureDate, departureStopID)
			jid := journey.ID
			return Section{
				journeyID:       &jid,
				departureStopID: departureStopID,
				arrivalStopID:   stopID,
				arrivalAt:       arrivalAt,
			}, visited, true
		}
	}
	return Section{}, nil, false
}

// routeFingerprints collects the route-suffix fingerprint of every transit
// section in r, as seen from r's current arrival stop — passed to the
// connection enumerator as routesToIgnore so it never re-boards a service
// this route has already ridden to the same destination.
func routeFingerprints(tt *timetable.Timetable, r *Route) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for _, s := range r.sections {
		journey := s.Journey(tt)
		if journey == nil {
			continue
		}
		if hash, ok := journey.HashRoute(r.ArrivalStopID()); ok {
			out[hash] = struct{}{}
		}
	}
	return out
}

// sortRoutes orders routes ascending by arrival instant, stably (the
// insertion sort in sortStableByArrival preserves insertion order on ties,
// matching the reproducibility requirement on frontier processing).
func sortRoutes(routes []*Route) {
	sortStableByArrival(routes)
}

// sortedInsert inserts route into routes, keeping it sorted ascending by
// arrival instant, placing it after any routes with an equal arrival
// (stable with respect to routes already present).
func sortedInsert(routes []*Route, route *Route) []*Route {
	idx := len(routes)
	for i, existing := range routes {
		if route.ArrivalAt().Before(existing.ArrivalAt()) {
			idx = i
			break
		}
	}
	out := make([]*Route, 0, len(routes)+1)
	out = append(out, routes[:idx]...)
	out = append(out, route)
	out = append(out, routes[idx:]...)
	return out
}

func sortStableByArrival(routes []*Route) {
	// insertion sort is adequate: frontiers are small (bounded by branching
	// factor per round) and this keeps the dependency surface to the
	// standard library for a one-line comparison predicate.
	for i := 1; i < len(routes); i++ {
		for j := i; j > 0 && routes[j].ArrivalAt().Before(routes[j-1].ArrivalAt()); j-- {
			routes[j], routes[j-1] = routes[j-1], routes[j]
		}
	}
}
