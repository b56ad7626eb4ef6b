package domain_test

import (
	"testing"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
)

func dur(h, m int) *time.Duration {
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	return &d
}

// nightJourney departs stop 1 at 23:50 and crosses midnight, arriving at
// stop 3 at 00:20 the following calendar day.
func nightJourney() *domain.Journey {
	return &domain.Journey{
		ID: 1, Administration: "SBB", TransportType: domain.TransportType{ID: 1, Designation: "IC"},
		Route: []domain.RouteEntry{
			{StopID: 1, DepartureTime: dur(23, 50)},
			{StopID: 2, ArrivalTime: dur(0, 5), DepartureTime: dur(0, 7)},
			{StopID: 3, ArrivalTime: dur(0, 20)},
		},
	}
}

func TestJourney_ArrivalAtOfWithOrigin_CrossesMidnight(t *testing.T) {
	j := nightJourney()
	departureDay := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	arrival := j.ArrivalAtOfWithOrigin(3, departureDay.Add(23*time.Hour+50*time.Minute), true, 1)
	want := time.Date(2026, 6, 2, 0, 20, 0, 0, time.UTC)
	if !arrival.Equal(want) {
		t.Errorf("arrival at stop 3 = %v, want %v", arrival, want)
	}
}

func TestJourney_DepartureAtOfWithOrigin_CrossesMidnight(t *testing.T) {
	j := nightJourney()
	departureDay := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	departure := j.DepartureAtOfWithOrigin(2, departureDay.Add(23*time.Hour+50*time.Minute), true, 1)
	want := time.Date(2026, 6, 2, 0, 7, 0, 0, time.UTC)
	if !departure.Equal(want) {
		t.Errorf("departure at stop 2 = %v, want %v", departure, want)
	}
}

func TestJourney_DepartureAtOf_SameDay(t *testing.T) {
	j := nightJourney()
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	departure := j.DepartureAtOf(1, date)
	want := time.Date(2026, 6, 1, 23, 50, 0, 0, time.UTC)
	if !departure.Equal(want) {
		t.Errorf("departure at stop 1 = %v, want %v", departure, want)
	}
}

func TestJourney_RouteSectionAndCountStops(t *testing.T) {
	j := nightJourney()

	section := j.RouteSection(1, 3)
	if len(section) != 2 {
		t.Fatalf("expected 2 entries between stop 1 and 3, got %d", len(section))
	}
	if section[0].StopID != 2 || section[1].StopID != 3 {
		t.Errorf("unexpected section stops: %+v", section)
	}
	if got := j.CountStops(1, 3); got != 2 {
		t.Errorf("CountStops(1,3) = %d, want 2", got)
	}
	if got := j.CountStops(2, 3); got != 1 {
		t.Errorf("CountStops(2,3) = %d, want 1", got)
	}
}

func TestJourney_RouteSection_FromAfterTo_ReturnsNil(t *testing.T) {
	j := nightJourney()
	if section := j.RouteSection(3, 1); section != nil {
		t.Errorf("expected nil section when fromStopID is after toStopID, got %+v", section)
	}
}

func TestJourney_HashRoute(t *testing.T) {
	j := nightJourney()

	fromStart, ok := j.HashRoute(1)
	if !ok {
		t.Fatal("expected stop 1 to be on the route")
	}
	fromMiddle, ok := j.HashRoute(2)
	if !ok {
		t.Fatal("expected stop 2 to be on the route")
	}
	if fromStart == fromMiddle {
		t.Error("expected different fingerprints for different route suffixes")
	}

	_, ok = j.HashRoute(99)
	if ok {
		t.Error("expected HashRoute to report false for a stop not on the route")
	}
}

func TestJourney_HashRoute_SameSuffixSameFingerprint(t *testing.T) {
	a := &domain.Journey{
		ID: 1,
		Route: []domain.RouteEntry{
			{StopID: 1, DepartureTime: dur(8, 0)},
			{StopID: 2, ArrivalTime: dur(8, 10)},
		},
	}
	b := &domain.Journey{
		ID: 2,
		Route: []domain.RouteEntry{
			{StopID: 1, DepartureTime: dur(8, 5)},
			{StopID: 2, ArrivalTime: dur(8, 15)},
		},
	}

	ha, _ := a.HashRoute(1)
	hb, _ := b.HashRoute(1)
	if ha != hb {
		t.Error("expected two journeys sharing the same stop suffix to fingerprint identically")
	}
}

func TestJourney_FirstStopIDAndIsLastStop(t *testing.T) {
	j := nightJourney()
	if j.FirstStopID() != 1 {
		t.Errorf("FirstStopID() = %d, want 1", j.FirstStopID())
	}
	if !j.IsLastStop(3) {
		t.Error("expected stop 3 to be the terminus")
	}
	if j.IsLastStop(1) {
		t.Error("did not expect stop 1 to be the terminus")
	}
}
