package routing

import (
	"fmt"
	"strings"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// ToRouteResult renders route into the wire-friendly, fully resolved shape
// returned to callers. A route always begins and ends with a transit
// section except when it starts or ends with a single walking connector to
// or from the true origin/destination stop, in which case the journey's
// overall departure/arrival instants are taken from the adjacent transit
// section instead.
func (r *Route) ToRouteResult(tt *timetable.Timetable) domain.RouteResult {
	sections := make([]domain.RouteSectionResult, len(r.sections))
	for i, s := range r.sections {
		sections[i] = s.ToRouteSectionResult(tt)
	}

	departureAt := sections[0].DepartureAt
	if sections[0].IsWalkingTrip() {
		departureAt = sections[1].DepartureAt
	}

	arrivalAt := sections[len(sections)-1].ArrivalAt
	if sections[len(sections)-1].IsWalkingTrip() {
		arrivalAt = sections[len(sections)-2].ArrivalAt
	}

	return domain.RouteResult{
		DepartureAt: *departureAt,
		ArrivalAt:   *arrivalAt,
		Sections:    sections,
	}
}

// ToRouteSectionResult resolves one section's stops and, for transit
// sections, the departure instant implied by the journey's own timetable
// (a route section only stores its arrival instant; the departure instant
// is derived backwards from it).
func (s Section) ToRouteSectionResult(tt *timetable.Timetable) domain.RouteSectionResult {
	departureStop := tt.Stop(s.departureStopID)
	arrivalStop := tt.Stop(s.arrivalStopID)

	out := domain.RouteSectionResult{
		JourneyID:          s.journeyID,
		DepartureStopID:    departureStop.ID,
		DepartureStopLV95:  departureStop.LV95,
		DepartureStopWGS84: departureStop.WGS84,
		ArrivalStopID:      arrivalStop.ID,
		ArrivalStopLV95:    arrivalStop.LV95,
		ArrivalStopWGS84:   arrivalStop.WGS84,
		DurationMinutes:    s.duration,
	}

	if s.journeyID != nil {
		journey := tt.Journey(*s.journeyID)
		departureAt := journey.DepartureAtOfWithOrigin(departureStop.ID, s.arrivalAt, false, arrivalStop.ID)
		arrivalAt := s.arrivalAt
		out.DepartureAt = &departureAt
		out.ArrivalAt = &arrivalAt
	}

	return out
}

// Describe renders a human-readable, multi-line trace of the route: one
// line per section, transit sections naming the
// journey and administration, walking sections naming the duration.
func (r *Route) Describe(tt *timetable.Timetable) string {
	var b strings.Builder
	for _, s := range r.sections {
		departureStop := tt.Stop(s.departureStopID)
		arrivalStop := tt.Stop(s.arrivalStopID)

		if s.journeyID == nil {
			fmt.Fprintf(&b, "walk     %-30s -> %-30s (%dmin)\n", departureStop.Name, arrivalStop.Name, *s.duration)
			continue
		}

		journey := tt.Journey(*s.journeyID)
		departureAt := journey.DepartureAtOfWithOrigin(departureStop.ID, s.arrivalAt, false, arrivalStop.ID)
		fmt.Fprintf(&b, "%-8s %-30s -> %-30s  dep %s  arr %s\n",
			journey.Administration, departureStop.Name, arrivalStop.Name,
			departureAt.Format("15:04"), s.arrivalAt.Format("15:04"))
	}
	return b.String()
}
