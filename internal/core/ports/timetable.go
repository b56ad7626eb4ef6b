package ports

import (
	"context"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
)

// RawTimetable is the flat, denormalized shape a TimetableSource produces.
// It is consumed exactly once, at startup, by timetable.Build — nothing
// downstream mutates it afterwards.
type RawTimetable struct {
	Metadata            domain.TimetableMetadata
	Stops               []domain.Stop
	Journeys            []domain.Journey
	StopConnections      []domain.StopConnection
	BitFields            []domain.BitField
	BitFieldsByDay       BitFieldsByDay
	BitFieldsByStop      map[int][]int // stop ID -> bitset IDs active at that stop
	JourneysByStopAndBit map[[2]int][]int // (stop ID, bitset ID) -> journey IDs
	ExchangeTimesJourney map[ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry
	ExchangeTimesAdmin   map[ExchangeAdminKey]int16
	DefaultExchangeTime  domain.ExchangeTimePair
}

// ExchangeJourneyKey addresses the journey-pair exchange-time table.
type ExchangeJourneyKey struct {
	StopID     int
	JourneyID1 int
	JourneyID2 int
}

// ExchangeAdminKey addresses the administration-pair exchange-time table.
// StopID nil means the global (stop-independent) tier.
type ExchangeAdminKey struct {
	StopID         *int
	Administration1 string
	Administration2 string
}

// TimetableSource loads a RawTimetable from some backing store (a CSV
// fixture, a staged Postgres schema, ...). Loading happens once at process
// startup; the result is handed to timetable.Build and never touched again.
type TimetableSource interface {
	Load(ctx context.Context) (*RawTimetable, error)
}

// BitFieldsByDay indexes which bitset IDs are active on a given calendar
// day. Kept separate from RawTimetable's other maps because it's keyed by
// time.Time, not by int, and loaders build it incrementally from bitfield
// definitions plus the timetable's validity window.
type BitFieldsByDay map[time.Time][]int
