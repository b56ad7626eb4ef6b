// Package timetable provides the read-only façade the routing and
// isochrone packages query: stops, journeys, calendars, exchange-time
// tables, and stop-to-stop walking links. The dataset is built once at
// startup and never mutated afterwards, so it is safe to share across
// concurrently-running queries without any locking.
package timetable

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
)

// Timetable is the immutable, in-memory view over a loaded dataset.
type Timetable struct {
	metadata domain.TimetableMetadata

	stops    map[int]*domain.Stop
	journeys map[int]*domain.Journey

	stopConnectionsByStop map[int][]domain.StopConnection

	bitFieldsByID   map[int]domain.BitField
	bitFieldsByStop map[int]map[int]struct{}
	bitFieldsByDay  map[time.Time]map[int]struct{}

	journeysByStopAndBit map[[2]int][]int

	exchangeTimesJourney map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry
	exchangeTimesAdmin   map[ports.ExchangeAdminKey]int16
	defaultExchangeTime  domain.ExchangeTimePair
}

// Metadata returns the timetable's validity window.
func (t *Timetable) Metadata() domain.TimetableMetadata {
	return t.metadata
}

// Stop looks up a stop by id. Missing stops are an invariant violation: a
// well-formed timetable never references a stop it didn't load.
func (t *Timetable) Stop(id int) *domain.Stop {
	s, ok := t.stops[id]
	if !ok {
		domain.Panicf("stop %d not found", id)
	}
	return s
}

// Journey looks up a journey by id.
func (t *Timetable) Journey(id int) *domain.Journey {
	j, ok := t.journeys[id]
	if !ok {
		domain.Panicf("journey %d not found", id)
	}
	return j
}

// StopConnections returns the walking links departing stopID, or nil if it
// has none.
func (t *Timetable) StopConnections(stopID int) []domain.StopConnection {
	return t.stopConnectionsByStop[stopID]
}

// StopsWithPrefix returns every stop whose decimal id starts with prefix
// and which carries WGS84 coordinates, sorted by id for determinism. Used
// by the isochrone builder's nearest-stop search.
func (t *Timetable) StopsWithPrefix(prefix string) []*domain.Stop {
	var out []*domain.Stop
	for _, s := range t.stops {
		if s.WGS84 == nil {
			continue
		}
		if !strings.HasPrefix(strconv.Itoa(s.ID), prefix) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func dayKey(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// OperatingJourneys returns every journey operating at stopID on date: the
// intersection of the bitsets active at that stop with those active on
// that calendar day.
func (t *Timetable) OperatingJourneys(date time.Time, stopID int) []*domain.Journey {
	stopBits, ok := t.bitFieldsByStop[stopID]
	if !ok {
		return nil
	}
	dayBits, ok := t.bitFieldsByDay[dayKey(date)]
	if !ok {
		return nil
	}

	seen := make(map[int]struct{})
	var out []*domain.Journey
	for bit := range stopBits {
		if _, active := dayBits[bit]; !active {
			continue
		}
		for _, journeyID := range t.journeysByStopAndBit[[2]int{stopID, bit}] {
			if _, dup := seen[journeyID]; dup {
				continue
			}
			seen[journeyID] = struct{}{}
			out = append(out, t.Journey(journeyID))
		}
	}
	return out
}
