package isochrone_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/isochrone"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// buildTestTimetable mirrors fixtures/hrdf's coordinate scale: one origin
// stop under the Swiss "85" prefix with a direct service to a second stop
// a few kilometres away.
func buildTestTimetable(t *testing.T) *timetable.Timetable {
	t.Helper()

	stopCoords := func(lv95E, lv95N float64) (*geospatial.LV95, *geospatial.WGS84) {
		lv95 := geospatial.LV95{Easting: lv95E, Northing: lv95N}
		wgs84 := geospatial.LV95ToWGS84(lv95)
		return &lv95, &wgs84
	}

	dep := func(h, m int) *time.Duration {
		d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
		return &d
	}

	centralLV95, centralWGS84 := stopCoords(2600000, 1199000)
	northLV95, northWGS84 := stopCoords(2600000, 1201000)

	raw := &ports.RawTimetable{
		Metadata: domain.TimetableMetadata{
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		Stops: []domain.Stop{
			{ID: 8501000, Name: "Central", LV95: centralLV95, WGS84: centralWGS84, CanBeUsedAsExchangePoint: true},
			{ID: 8501001, Name: "North", LV95: northLV95, WGS84: northWGS84, CanBeUsedAsExchangePoint: true},
		},
		Journeys: []domain.Journey{
			{
				ID: 1, Administration: "SBB", TransportType: domain.TransportType{ID: 1, Designation: "IC"},
				Route: []domain.RouteEntry{
					{StopID: 8501000, DepartureTime: dep(8, 0)},
					{StopID: 8501001, ArrivalTime: dep(8, 10)},
				},
			},
		},
		BitFields:      []domain.BitField{{ID: 1, Bits: boolsOf(400, true)}},
		BitFieldsByDay: ports.BitFieldsByDay{time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC): {1}},
		BitFieldsByStop: map[int][]int{
			8501000: {1}, 8501001: {1},
		},
		JourneysByStopAndBit: map[[2]int][]int{
			{8501000, 1}: {1}, {8501001, 1}: {1},
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

func TestComputeIsochrones_TimeLimitEqualsInterval_OnePolygonSet(t *testing.T) {
	tt := buildTestTimetable(t)
	origin := geospatial.LV95ToWGS84(geospatial.LV95{Easting: 2600000, Northing: 1199000})
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result, err := isochrone.ComputeIsochrones(context.Background(), tt, origin.Latitude, origin.Longitude,
		departureAt, 20*time.Minute, 20*time.Minute, isochrone.Circles)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if len(result.Isochrones) != 1 {
		t.Fatalf("expected exactly 1 isochrone when time_limit == isochrone_interval, got %d", len(result.Isochrones))
	}
	if result.Isochrones[0].TimeLimitMinutes != 20 {
		t.Errorf("expected time_limit 20, got %d", result.Isochrones[0].TimeLimitMinutes)
	}
}

func TestComputeIsochrones_MultipleSteps_MonotoneTimeLimits(t *testing.T) {
	tt := buildTestTimetable(t)
	origin := geospatial.LV95ToWGS84(geospatial.LV95{Easting: 2600000, Northing: 1199000})
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result, err := isochrone.ComputeIsochrones(context.Background(), tt, origin.Latitude, origin.Longitude,
		departureAt, 60*time.Minute, 20*time.Minute, isochrone.Circles)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if len(result.Isochrones) != 3 {
		t.Fatalf("expected 3 isochrones for 60/20, got %d", len(result.Isochrones))
	}
	for i, want := range []uint32{20, 40, 60} {
		if result.Isochrones[i].TimeLimitMinutes != want {
			t.Errorf("isochrone %d: time_limit = %d, want %d", i, result.Isochrones[i].TimeLimitMinutes, want)
		}
	}
}

func TestComputeIsochrones_DepartureStopCoordMatchesNearestStop(t *testing.T) {
	tt := buildTestTimetable(t)
	origin := geospatial.LV95ToWGS84(geospatial.LV95{Easting: 2600000, Northing: 1199000})
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result, err := isochrone.ComputeIsochrones(context.Background(), tt, origin.Latitude, origin.Longitude,
		departureAt, 20*time.Minute, 20*time.Minute, isochrone.Circles)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}

	central := tt.Stop(8501000)
	if result.DepartureStopCoord != *central.WGS84 {
		t.Errorf("departure stop coord = %+v, want %+v", result.DepartureStopCoord, *central.WGS84)
	}
}

func TestComputeIsochrones_ContourLine_TimeLimitEqualsInterval_OnePolygonSet(t *testing.T) {
	tt := buildTestTimetable(t)
	origin := geospatial.LV95ToWGS84(geospatial.LV95{Easting: 2600000, Northing: 1199000})
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result, err := isochrone.ComputeIsochrones(context.Background(), tt, origin.Latitude, origin.Longitude,
		departureAt, 20*time.Minute, 20*time.Minute, isochrone.ContourLine)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if len(result.Isochrones) != 1 {
		t.Fatalf("expected exactly 1 isochrone when time_limit == isochrone_interval, got %d", len(result.Isochrones))
	}
	if result.Isochrones[0].TimeLimitMinutes != 20 {
		t.Errorf("expected time_limit 20, got %d", result.Isochrones[0].TimeLimitMinutes)
	}
}

func TestComputeIsochrones_ContourLine_MultipleSteps_MonotoneTimeLimits(t *testing.T) {
	tt := buildTestTimetable(t)
	origin := geospatial.LV95ToWGS84(geospatial.LV95{Easting: 2600000, Northing: 1199000})
	departureAt := time.Date(2026, 6, 1, 7, 55, 0, 0, time.UTC)

	result, err := isochrone.ComputeIsochrones(context.Background(), tt, origin.Latitude, origin.Longitude,
		departureAt, 60*time.Minute, 20*time.Minute, isochrone.ContourLine)
	if err != nil {
		t.Fatalf("ComputeIsochrones: %v", err)
	}
	if len(result.Isochrones) != 3 {
		t.Fatalf("expected 3 isochrones for 60/20, got %d", len(result.Isochrones))
	}
	prev := uint32(0)
	for i, want := range []uint32{20, 40, 60} {
		if result.Isochrones[i].TimeLimitMinutes != want {
			t.Errorf("isochrone %d: time_limit = %d, want %d", i, result.Isochrones[i].TimeLimitMinutes, want)
		}
		if result.Isochrones[i].TimeLimitMinutes <= prev {
			t.Errorf("isochrone %d: time_limit %d did not strictly increase over previous %d", i, result.Isochrones[i].TimeLimitMinutes, prev)
		}
		prev = result.Isochrones[i].TimeLimitMinutes
	}
}
