package timetable_test

import (
	"testing"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

func baseRaw() *ports.RawTimetable {
	return &ports.RawTimetable{
		Metadata: domain.TimetableMetadata{
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		Stops: []domain.Stop{
			{ID: 1, Name: "Central"},
			{ID: 2, Name: "WithDefault", DefaultExchangeTime: &domain.ExchangeTimePair{ICToIC: 8, Other: 6}},
		},
		Journeys: []domain.Journey{
			{ID: 1, Administration: "SBB", TransportType: domain.TransportType{ID: 1, Designation: "IC"}},
			{ID: 2, Administration: "SBB", TransportType: domain.TransportType{ID: 2, Designation: "S"}},
			{ID: 3, Administration: "BLS", TransportType: domain.TransportType{ID: 1, Designation: "IC"}},
		},
		BitFields:            []domain.BitField{},
		BitFieldsByDay:       ports.BitFieldsByDay{},
		BitFieldsByStop:      map[int][]int{},
		JourneysByStopAndBit: map[[2]int][]int{},
		ExchangeTimesJourney: map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry{},
		ExchangeTimesAdmin:   map[ports.ExchangeAdminKey]int16{},
		DefaultExchangeTime:  domain.ExchangeTimePair{ICToIC: 5, Other: 3},
	}
}

func TestExchangeTime_FallsBackToSystemDefault(t *testing.T) {
	raw := baseRaw()
	tt := timetable.Build(raw)

	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if got := tt.ExchangeTime(1, 1, 3, departureAt); got != 5 {
		t.Errorf("IC->IC with no overrides = %d, want system default 5", got)
	}
	if got := tt.ExchangeTime(1, 1, 2, departureAt); got != 3 {
		t.Errorf("IC->S with no overrides = %d, want system default 3", got)
	}
}

func TestExchangeTime_StopDefaultBeatsSystemDefault(t *testing.T) {
	raw := baseRaw()
	tt := timetable.Build(raw)

	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if got := tt.ExchangeTime(2, 1, 3, departureAt); got != 8 {
		t.Errorf("IC->IC at stop with its own default = %d, want 8", got)
	}
	if got := tt.ExchangeTime(2, 1, 2, departureAt); got != 6 {
		t.Errorf("IC->S at stop with its own default = %d, want 6", got)
	}
}

func TestExchangeTime_AdminPairOverrideBeatsStopDefault(t *testing.T) {
	raw := baseRaw()
	stopTwo := 2
	raw.ExchangeTimesAdmin[ports.ExchangeAdminKey{StopID: &stopTwo, Administration1: "SBB", Administration2: "BLS"}] = 12
	tt := timetable.Build(raw)

	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if got := tt.ExchangeTime(2, 1, 3, departureAt); got != 12 {
		t.Errorf("SBB->BLS stop-scoped admin override at stop 2 = %d, want 12", got)
	}
	// an admin pair with no override still falls through to the stop's own default.
	if got := tt.ExchangeTime(2, 1, 2, departureAt); got != 6 {
		t.Errorf("SBB->SBB at stop 2 = %d, want stop default 6", got)
	}
}

func TestExchangeTime_StopScopedAdminOverrideBeatsSystemWide(t *testing.T) {
	raw := baseRaw()
	raw.ExchangeTimesAdmin[ports.ExchangeAdminKey{StopID: nil, Administration1: "SBB", Administration2: "BLS"}] = 12
	stopOne := 1
	raw.ExchangeTimesAdmin[ports.ExchangeAdminKey{StopID: &stopOne, Administration1: "SBB", Administration2: "BLS"}] = 2
	tt := timetable.Build(raw)

	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if got := tt.ExchangeTime(1, 1, 3, departureAt); got != 2 {
		t.Errorf("stop-scoped admin override = %d, want 2", got)
	}
}

func TestExchangeTime_JourneyPairOverrideWinsOverEverything(t *testing.T) {
	raw := baseRaw()
	raw.ExchangeTimesAdmin[ports.ExchangeAdminKey{StopID: nil, Administration1: "SBB", Administration2: "BLS"}] = 12
	raw.ExchangeTimesJourney[ports.ExchangeJourneyKey{StopID: 1, JourneyID1: 1, JourneyID2: 3}] = []domain.ExchangeTimeJourneyEntry{
		{DurationMinutes: 1, BitFieldID: nil},
	}
	tt := timetable.Build(raw)

	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if got := tt.ExchangeTime(1, 1, 3, departureAt); got != 1 {
		t.Errorf("journey-pair override = %d, want 1", got)
	}
}

func TestExchangeTime_JourneyPairOverride_InactiveBitFalls_Through(t *testing.T) {
	raw := baseRaw()
	bitID := 1
	raw.BitFields = []domain.BitField{{ID: bitID, Bits: make([]bool, 400)}}
	raw.ExchangeTimesJourney[ports.ExchangeJourneyKey{StopID: 1, JourneyID1: 1, JourneyID2: 3}] = []domain.ExchangeTimeJourneyEntry{
		{DurationMinutes: 1, BitFieldID: &bitID},
	}
	tt := timetable.Build(raw)

	departureAt := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if got := tt.ExchangeTime(1, 1, 3, departureAt); got != 5 {
		t.Errorf("inactive journey-pair bitfield should fall through to system default, got %d, want 5", got)
	}
}
