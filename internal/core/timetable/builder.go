package timetable

import (
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
)

// Build assembles a queryable Timetable from a source's raw load. It is
// the only place that constructs a Timetable: every index below is derived
// once here and never touched again.
func Build(raw *ports.RawTimetable) *Timetable {
	t := &Timetable{
		metadata:              raw.Metadata,
		stops:                 make(map[int]*domain.Stop, len(raw.Stops)),
		journeys:              make(map[int]*domain.Journey, len(raw.Journeys)),
		stopConnectionsByStop: make(map[int][]domain.StopConnection),
		bitFieldsByID:         make(map[int]domain.BitField, len(raw.BitFields)),
		bitFieldsByStop:       make(map[int]map[int]struct{}, len(raw.BitFieldsByStop)),
		bitFieldsByDay:        make(map[time.Time]map[int]struct{}, len(raw.BitFieldsByDay)),
		journeysByStopAndBit:  raw.JourneysByStopAndBit,
		exchangeTimesJourney:  raw.ExchangeTimesJourney,
		exchangeTimesAdmin:    raw.ExchangeTimesAdmin,
		defaultExchangeTime:   raw.DefaultExchangeTime,
	}

	for i := range raw.Stops {
		s := raw.Stops[i]
		t.stops[s.ID] = &s
	}
	for i := range raw.Journeys {
		j := raw.Journeys[i]
		t.journeys[j.ID] = &j
	}
	for _, c := range raw.StopConnections {
		t.stopConnectionsByStop[c.StopID1] = append(t.stopConnectionsByStop[c.StopID1], c)
	}
	for _, bf := range raw.BitFields {
		t.bitFieldsByID[bf.ID] = bf
	}
	for stopID, bits := range raw.BitFieldsByStop {
		set := make(map[int]struct{}, len(bits))
		for _, b := range bits {
			set[b] = struct{}{}
		}
		t.bitFieldsByStop[stopID] = set
	}
	for date, bits := range raw.BitFieldsByDay {
		set := make(map[int]struct{}, len(bits))
		for _, b := range bits {
			set[b] = struct{}{}
		}
		t.bitFieldsByDay[dayKey(date)] = set
	}

	if t.journeysByStopAndBit == nil {
		t.journeysByStopAndBit = make(map[[2]int][]int)
	}
	if t.exchangeTimesJourney == nil {
		t.exchangeTimesJourney = make(map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry)
	}
	if t.exchangeTimesAdmin == nil {
		t.exchangeTimesAdmin = make(map[ports.ExchangeAdminKey]int16)
	}

	return t
}
