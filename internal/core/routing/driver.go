package routing

import (
	"log/slog"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// ComputeRouting runs the full frontier expansion from departureStopID at
// departureAt, bounded by MaxRounds connection levels, and returns one
// solution route per reachable arrival stop the mode admits.
func ComputeRouting(tt *timetable.Timetable, departureStopID int, departureAt time.Time, args Args) map[int]*Route {
	routes := CreateInitialRoutes(tt, departureStopID, departureAt)

	journeysToIgnore := make(map[int]struct{})
	earliestArrivalByStopID := make(map[int]time.Time)
	solutions := make(map[int]*Route)

	for _, r := range routes {
		if id := r.LastSection().JourneyID(); id != nil {
			journeysToIgnore[*id] = struct{}{}
		}
	}

	for round := 0; round < MaxRounds; round++ {
		slog.Debug("routing round", "round", round, "frontier", len(routes))

		var canContinue func(*Route) bool
		switch args.mode {
		case OneToOne:
			canContinue = func(r *Route) bool {
				return canContinueExplorationOneToOne(tt, r, solutions, args.arrivalStopID)
			}
		case OneToMany:
			canContinue = func(r *Route) bool {
				return canContinueExplorationOneToMany(tt, r, solutions, args.timeLimit)
			}
		}

		newRoutes := ExploreRoutes(tt, routes, journeysToIgnore, earliestArrivalByStopID, canContinue)
		if len(newRoutes) == 0 {
			break
		}
		routes = newRoutes
	}

	return solutions
}

// CreateInitialRoutes seeds the frontier with the first connection level
// from departureStopID: one route per journey boardable there, plus one
// route per walking connection leaving the stop.
func CreateInitialRoutes(tt *timetable.Timetable, departureStopID int, departureAt time.Time) []*Route {
	var routes []*Route

	candidates := NextDepartures(tt, departureStopID, departureAt, nil, nil)
	for _, c := range candidates {
		section, visited, ok := findNextSection(tt, c.journey, departureStopID, c.departureAt, true)
		if !ok {
			continue
		}
		visited[departureStopID] = struct{}{}
		routes = append(routes, &Route{sections: []Section{section}, visitedStops: visited})
	}

	for _, conn := range tt.StopConnections(departureStopID) {
		visited := map[int]struct{}{conn.StopID1: {}, conn.StopID2: {}}
		duration := conn.DurationMinutes
		section := Section{
			departureStopID: conn.StopID1,
			arrivalStopID:   conn.StopID2,
			arrivalAt:       departureAt.Add(time.Duration(duration) * time.Minute),
			duration:        &duration,
		}
		routes = append(routes, &Route{sections: []Section{section}, visitedStops: visited})
	}

	sortRoutes(routes)
	return routes
}

// canContinueExplorationOneToOne is the OneToOne driver's frontier
// predicate: a route not yet at arrivalStopID continues exploring only if
// it could still beat the best solution found so far; one that has
// reached arrivalStopID is evaluated as a candidate solution (refining its
// last transit section's alighting point to arrivalStopID if needed) and
// never continues exploring past it.
func canContinueExplorationOneToOne(tt *timetable.Timetable, route *Route, solutions map[int]*Route, arrivalStopID int) bool {
	solution := solutions[arrivalStopID]

	if _, visited := route.visitedStops[arrivalStopID]; !visited {
		return canImproveSolution(route, solution)
	}

	var candidate *Route
	if route.LastSection().JourneyID() == nil {
		candidate = route
	} else {
		candidate = updateArrivalStop(tt, route, arrivalStopID)
	}

	if isImprovingSolution(tt, candidate, solution) {
		solutions[arrivalStopID] = candidate
	}
	return false
}

// canContinueExplorationOneToMany is the OneToMany driver's frontier
// predicate: every stop the route's current transit section passes
// through is evaluated as a candidate solution for its own arrival stop
// (refined to alight there), and the route keeps exploring as long as it
// hasn't yet crossed the time limit.
func canContinueExplorationOneToMany(tt *timetable.Timetable, route *Route, solutions map[int]*Route, timeLimit time.Time) bool {
	evaluate := func(candidate *Route) {
		if candidate.ArrivalAt().After(timeLimit) {
			return
		}
		arrivalStopID := candidate.ArrivalStopID()
		if isImprovingSolution(tt, candidate, solutions[arrivalStopID]) {
			solutions[arrivalStopID] = candidate
		}
	}

	last := route.LastSection()
	if last.JourneyID() == nil {
		evaluate(route)
	} else {
		journey := last.Journey(tt)
		for _, entry := range journey.RouteSection(last.DepartureStopID(), last.ArrivalStopID()) {
			evaluate(updateArrivalStop(tt, route, entry.StopID))
		}
	}

	return route.ArrivalAt().Before(timeLimit)
}

// updateArrivalStop returns a clone of route with its last (transit)
// section's alighting point moved back to arrivalStopID, recomputing the
// arrival instant from the journey's own timetable. route's last section
// must carry a journey.
func updateArrivalStop(tt *timetable.Timetable, route *Route, arrivalStopID int) *Route {
	last := route.LastSection()
	journey := last.Journey(tt)
	arrivalAt := journey.ArrivalAtOfWithOrigin(arrivalStopID, last.ArrivalAt(), false, last.ArrivalStopID())

	out := route.clone()
	li := len(out.sections) - 1
	out.sections[li].setArrivalStopID(arrivalStopID)
	out.sections[li].setArrivalAt(arrivalAt)
	return out
}

// canImproveSolution reports whether route could still end up at least as
// good as solution (or there's no solution yet) purely by arrival time —
// used to decide whether a route not yet at its target is worth continuing
// to explore.
func canImproveSolution(route *Route, solution *Route) bool {
	if solution == nil {
		return true
	}
	return !route.ArrivalAt().After(solution.ArrivalAt())
}

// isImprovingSolution applies the full three-tier tie-breaker: earliest
// arrival, then fewest transfers, then (comparing each corresponding
// transit section in ride order) the most stops crossed. A candidate that
// is a single walking trip is never a valid solution on its own.
func isImprovingSolution(tt *timetable.Timetable, candidate *Route, solution *Route) bool {
	if len(candidate.sections) == 1 && candidate.LastSection().JourneyID() == nil {
		return false
	}
	if solution == nil {
		return true
	}

	t1, t2 := candidate.ArrivalAt(), solution.ArrivalAt()
	if !t1.Equal(t2) {
		return t1.Before(t2)
	}

	c1, c2 := candidate.CountConnections(), solution.CountConnections()
	if c1 != c2 {
		return c1 < c2
	}

	sections1 := candidate.SectionsHavingJourney()
	sections2 := solution.SectionsHavingJourney()
	for i := 0; i < c1; i++ {
		count1 := countStops(tt, sections1[i])
		count2 := countStops(tt, sections2[i])
		if count1 != count2 {
			return count1 > count2
		}
	}
	return false
}

func countStops(tt *timetable.Timetable, s Section) int {
	journey := s.Journey(tt)
	return journey.CountStops(s.DepartureStopID(), s.ArrivalStopID())
}

// PlanJourney finds the best single journey from departureStopID to
// arrivalStopID departing no earlier than departureAt, or nil if none
// exists within MaxRounds connection levels. Querying a stop against
// itself short-circuits to a zero-length result rather than entering the
// frontier search.
func PlanJourney(tt *timetable.Timetable, departureStopID, arrivalStopID int, departureAt time.Time) *domain.RouteResult {
	if departureStopID == arrivalStopID {
		return &domain.RouteResult{DepartureAt: departureAt, ArrivalAt: departureAt}
	}

	solutions := ComputeRouting(tt, departureStopID, departureAt, OneToOneArgs(arrivalStopID))
	route, ok := solutions[arrivalStopID]
	if !ok {
		return nil
	}
	result := route.ToRouteResult(tt)
	return &result
}

// FindReachableStopsWithinTimeLimit finds the best journey from
// departureStopID to every stop reachable by departureAt+timeLimit. The
// origin itself is always included, as a zero-length pseudo-entry, even
// when timeLimit is 0.
func FindReachableStopsWithinTimeLimit(tt *timetable.Timetable, departureStopID int, departureAt time.Time, timeLimit time.Duration) []domain.RouteResult {
	solutions := ComputeRouting(tt, departureStopID, departureAt, OneToManyArgs(departureAt.Add(timeLimit)))

	out := make([]domain.RouteResult, 0, len(solutions)+1)
	out = append(out, domain.RouteResult{DepartureAt: departureAt, ArrivalAt: departureAt})
	for stopID, route := range solutions {
		if stopID == departureStopID {
			continue
		}
		out = append(out, route.ToRouteResult(tt))
	}
	return out
}
