package routing_test

import (
	"testing"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/core/routing"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// buildTestTimetable mirrors fixtures/hrdf: Central is the common origin of
// three journeys; North and East are connected by a 15-minute walk; journey
// 1 (IC) runs Central->North->Remote, journey 2 (S) runs
// Central->East->South, journey 3 (S) runs Central->West.
func buildTestTimetable(t *testing.T) *timetable.Timetable {
	t.Helper()

	dep := func(h, m int) *time.Duration {
		d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
		return &d
	}

	raw := &ports.RawTimetable{
		Metadata: domain.TimetableMetadata{
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		Stops: []domain.Stop{
			{ID: 1, Name: "Central", CanBeUsedAsExchangePoint: true},
			{ID: 2, Name: "North", CanBeUsedAsExchangePoint: true},
			{ID: 3, Name: "East", CanBeUsedAsExchangePoint: true},
			{ID: 4, Name: "South", CanBeUsedAsExchangePoint: true},
			{ID: 5, Name: "West", CanBeUsedAsExchangePoint: true},
			{ID: 6, Name: "Remote", CanBeUsedAsExchangePoint: true},
		},
		Journeys: []domain.Journey{
			{
				ID: 1, Administration: "SBB", TransportType: domain.TransportType{ID: 1, Designation: "IC"},
				Route: []domain.RouteEntry{
					{StopID: 1, DepartureTime: dep(8, 0)},
					{StopID: 2, ArrivalTime: dep(8, 10), DepartureTime: dep(8, 12)},
					{StopID: 6, ArrivalTime: dep(8, 40)},
				},
			},
			{
				ID: 2, Administration: "SBB", TransportType: domain.TransportType{ID: 2, Designation: "S"},
				Route: []domain.RouteEntry{
					{StopID: 1, DepartureTime: dep(8, 5)},
					{StopID: 3, ArrivalTime: dep(8, 15), DepartureTime: dep(8, 17)},
					{StopID: 4, ArrivalTime: dep(8, 30)},
				},
			},
			{
				ID: 3, Administration: "SBB", TransportType: domain.TransportType{ID: 2, Designation: "S"},
				Route: []domain.RouteEntry{
					{StopID: 1, DepartureTime: dep(8, 10)},
					{StopID: 5, ArrivalTime: dep(8, 20)},
				},
			},
		},
		StopConnections: []domain.StopConnection{
			{StopID1: 2, StopID2: 3, DurationMinutes: 15},
			{StopID1: 3, StopID2: 2, DurationMinutes: 15},
		},
		BitFields:      []domain.BitField{{ID: 1, Bits: boolsOf(400, true)}},
		BitFieldsByDay: ports.BitFieldsByDay{dayAt(2026, 6, 1): {1}},
		BitFieldsByStop: map[int][]int{
			1: {1}, 2: {1}, 3: {1}, 4: {1}, 5: {1}, 6: {1},
		},
		JourneysByStopAndBit: map[[2]int][]int{
			{1, 1}: {1, 2, 3}, {2, 1}: {1}, {3, 1}: {2}, {4, 1}: {2}, {5, 1}: {3}, {6, 1}: {1},
		},
		ExchangeTimesJourney: map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry{},
		ExchangeTimesAdmin:   map[ports.ExchangeAdminKey]int16{},
		DefaultExchangeTime:  domain.ExchangeTimePair{ICToIC: 5, Other: 3},
	}

	return timetable.Build(raw)
}

func boolsOf(n int, v bool) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = v
	}
	return bits
}

func dayAt(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanJourney_DirectService(t *testing.T) {
	tt := buildTestTimetable(t)
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result := routing.PlanJourney(tt, 1, 6, departureAt)
	if result == nil {
		t.Fatal("expected a route from Central to Remote")
	}
	if len(result.Sections) == 0 {
		t.Fatal("expected at least one section")
	}
	if result.Sections[0].DepartureStopID != 1 {
		t.Errorf("first section departs stop %d, want 1", result.Sections[0].DepartureStopID)
	}
	if !result.DepartureAt.Before(result.ArrivalAt) && !result.DepartureAt.Equal(result.ArrivalAt) {
		t.Errorf("arrival %v should not precede departure %v", result.ArrivalAt, result.DepartureAt)
	}
	if result.DepartureAt.Before(departureAt) {
		t.Errorf("departure %v is earlier than requested %v", result.DepartureAt, departureAt)
	}
	last := result.Sections[len(result.Sections)-1]
	if last.ArrivalStopID != 6 {
		t.Errorf("last section arrives at stop %d, want 6", last.ArrivalStopID)
	}

	assertMonotoneAndContinuous(t, result.Sections)
}

func TestPlanJourney_DirectServiceToSouth(t *testing.T) {
	tt := buildTestTimetable(t)
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result := routing.PlanJourney(tt, 1, 4, departureAt)
	if result == nil {
		t.Fatal("expected a route from Central to South")
	}
	assertMonotoneAndContinuous(t, result.Sections)
}

func TestPlanJourney_WalkingConnector(t *testing.T) {
	tt := buildTestTimetable(t)
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	// North and East are linked by a 15-minute walk. A walking-only route is
	// never a solution on its own, so find_reachable from North surfaces the
	// walk as the first leg of a route that continues from East by transit.
	results := routing.FindReachableStopsWithinTimeLimit(tt, 2, departureAt, time.Hour)

	foundWalk := false
	for _, r := range results {
		if len(r.Sections) >= 2 && r.Sections[0].IsWalkingTrip() && r.Sections[0].ArrivalStopID == 3 {
			foundWalk = true
		}
	}
	if !foundWalk {
		t.Error("expected a result that walks from North to East and continues by transit")
	}
}

func TestPlanJourney_SameStop_ReturnsZeroLengthResult(t *testing.T) {
	tt := buildTestTimetable(t)
	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	result := routing.PlanJourney(tt, 1, 1, departureAt)
	if result == nil {
		t.Fatal("expected a zero-length result for a same-stop query")
	}
	if len(result.Sections) != 0 {
		t.Errorf("expected zero sections for a same-stop query, got %d", len(result.Sections))
	}
}

func TestFindReachableStopsWithinTimeLimit_IncludesOrigin(t *testing.T) {
	tt := buildTestTimetable(t)
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	results := routing.FindReachableStopsWithinTimeLimit(tt, 1, departureAt, time.Hour)

	foundOrigin := false
	for _, r := range results {
		if len(r.Sections) == 0 {
			foundOrigin = true
		}
		if r.ArrivalAt.After(departureAt.Add(time.Hour)) {
			t.Errorf("route arrives at %v, after the %v time limit", r.ArrivalAt, departureAt.Add(time.Hour))
		}
	}
	if !foundOrigin {
		t.Error("expected the origin stop to be included with a zero-length route")
	}
}

func TestFindReachableStopsWithinTimeLimit_ZeroLimit_OnlyOrigin(t *testing.T) {
	tt := buildTestTimetable(t)
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	results := routing.FindReachableStopsWithinTimeLimit(tt, 1, departureAt, 0)
	if len(results) != 1 {
		t.Fatalf("expected exactly the origin pseudo-entry, got %d results", len(results))
	}
	if len(results[0].Sections) != 0 {
		t.Errorf("expected the origin entry to have zero sections, got %d", len(results[0].Sections))
	}
}

// assertMonotoneAndContinuous checks two of the invariants every computed
// route must hold: arrival times never regress along the route, and each
// section's arrival stop is the next section's departure stop.
func assertMonotoneAndContinuous(t *testing.T, sections []domain.RouteSectionResult) {
	t.Helper()
	for i := 0; i+1 < len(sections); i++ {
		cur, next := sections[i], sections[i+1]
		if cur.ArrivalStopID != next.DepartureStopID {
			t.Errorf("section %d arrives at stop %d but section %d departs from stop %d", i, cur.ArrivalStopID, i+1, next.DepartureStopID)
		}
		if cur.ArrivalAt != nil && next.DepartureAt != nil && cur.ArrivalAt.After(*next.DepartureAt) {
			t.Errorf("section %d arrives at %v after section %d departs at %v", i, *cur.ArrivalAt, i+1, *next.DepartureAt)
		}
	}
}
