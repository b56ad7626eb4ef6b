package routing

import (
	"time"

	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// ExploreRoutes drains routes breadth-first, producing the next connection
// level: every route that can still improve on canContinueExploration is
// extended one more section along its current journey if possible, then —
// once it reaches a stop usable for exchange no later than any route seen
// there before — branched onto nearby walking connections and onward
// transit connections. journeysToIgnore and earliestArrivalByStopID are
// threaded across rounds by the caller. The returned routes are the new
// connection level, sorted by arrival instant.
func ExploreRoutes(tt *timetable.Timetable, routes []*Route, journeysToIgnore map[int]struct{}, earliestArrivalByStopID map[int]time.Time, canContinueExploration func(*Route) bool) []*Route {
	var newRoutes []*Route

	for len(routes) > 0 {
		route := routes[0]
		routes = routes[1:]

		if !canContinueExploration(route) {
			continue
		}

		last := route.LastSection()
		if last.departureStopID == last.arrivalStopID {
			// The journey is about to loop back on a stop it departed from;
			// further extension can't be distinguished from reaching its
			// terminus, so stop here.
			continue
		}

		routes = exploreLastSectionMoreIfPossible(tt, route, routes)

		if !canExploreConnections(tt, route, earliestArrivalByStopID) {
			continue
		}

		routes = exploreNearbyStops(tt, route, routes)
		newRoutes = append(newRoutes, GetConnections(tt, route, journeysToIgnore)...)
	}

	for _, r := range newRoutes {
		if id := r.LastSection().JourneyID(); id != nil {
			journeysToIgnore[*id] = struct{}{}
		}
	}

	sortRoutes(newRoutes)
	return newRoutes
}

// exploreLastSectionMoreIfPossible tries to ride the route's current
// journey on to its next exchange-capable stop (or terminus), anchored on
// the route's arrival day rather
// than its departure day (isDepartureDate=false) since the route is
// already underway.
func exploreLastSectionMoreIfPossible(tt *timetable.Timetable, route *Route, routes []*Route) []*Route {
	journeyID := route.LastSection().JourneyID()
	if journeyID == nil {
		return routes
	}

	extended := route.Extend(tt, *journeyID, route.ArrivalAt(), false)
	if extended == nil {
		return routes
	}
	return sortedInsert(routes, extended)
}

// canExploreConnections reports whether the route's arrival stop is usable
// for exchange and whether this is the fastest route to reach it so far,
// recording the new earliest arrival as a side effect.
func canExploreConnections(tt *timetable.Timetable, route *Route, earliestArrivalByStopID map[int]time.Time) bool {
	stopID := route.ArrivalStopID()
	stop := tt.Stop(stopID)
	if !stop.CanBeUsedAsExchangePoint {
		return false
	}

	arrivalAt := route.ArrivalAt()
	if earliest, ok := earliestArrivalByStopID[stopID]; ok {
		if arrivalAt.Before(earliest) {
			earliestArrivalByStopID[stopID] = arrivalAt
			return true
		}
		return false
	}
	earliestArrivalByStopID[stopID] = arrivalAt
	return true
}

// exploreNearbyStops branches the route onto every walking connection from
// its arrival stop, skipping connections to stops the route has already
// visited, unknown stops, and — since a walk can't follow another walk
// without an intervening ride — routes whose last section is itself a
// walking connector.
func exploreNearbyStops(tt *timetable.Timetable, route *Route, routes []*Route) []*Route {
	if route.LastSection().JourneyID() == nil {
		return routes
	}

	for _, conn := range tt.StopConnections(route.ArrivalStopID()) {
		if _, visited := route.visitedStops[conn.StopID2]; visited {
			continue
		}
		if !stopExists(tt, conn.StopID2) {
			continue
		}

		duration := conn.DurationMinutes
		out := route.clone()
		out.sections = append(out.sections, Section{
			departureStopID: conn.StopID1,
			arrivalStopID:   conn.StopID2,
			arrivalAt:       route.ArrivalAt().Add(time.Duration(duration) * time.Minute),
			duration:        &duration,
		})
		out.visitedStops[conn.StopID2] = struct{}{}

		routes = sortedInsert(routes, out)
	}
	return routes
}

func stopExists(tt *timetable.Timetable, stopID int) (exists bool) {
	defer func() {
		if recover() != nil {
			exists = false
		}
	}()
	tt.Stop(stopID)
	return true
}
