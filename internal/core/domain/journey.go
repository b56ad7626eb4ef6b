package domain

import (
	"encoding/binary"
	"hash/fnv"
	"time"
)

// TransportType categorizes a journey's service (e.g. "IC" for intercity),
// and is consulted by the stop-default and system-default tiers of exchange
// time lookup.
type TransportType struct {
	ID          int
	Designation string
}

// RouteEntry is one stop visited by a journey. ArrivalTime is nil at the
// journey's first stop; DepartureTime is nil at its last. Both are
// time-of-day offsets (0 <= d < 24h) against the journey's own operating
// day — not cumulative durations, and not directly comparable across a
// midnight crossing without an anchor; see (*Journey).instantWithOrigin.
type RouteEntry struct {
	StopID        int
	ArrivalTime   *time.Duration
	DepartureTime *time.Duration
}

// Journey is one vehicle run with a fixed timetable and route.
type Journey struct {
	ID             int
	Administration string
	TransportType  TransportType
	Route          []RouteEntry
}

func (j *Journey) stopIndex(stopID int) int {
	for i, e := range j.Route {
		if e.StopID == stopID {
			return i
		}
	}
	Panicf("journey %d: stop %d not on route", j.ID, stopID)
	return -1
}

// FirstStopID returns the journey's origin stop.
func (j *Journey) FirstStopID() int {
	return j.Route[0].StopID
}

// IsLastStop reports whether stopID is the journey's terminus.
func (j *Journey) IsLastStop(stopID int) bool {
	return j.Route[len(j.Route)-1].StopID == stopID
}

// unwrappedTimes holds, per route entry, the cumulative (midnight-crossing
// aware) offset of its arrival and departure time from midnight of the day
// the journey's first listed time falls on. Both are nil where the
// corresponding raw field is nil.
type unwrappedTimes struct {
	arrival, departure *time.Duration
}

func (j *Journey) unwrappedOffsets() []unwrappedTimes {
	out := make([]unwrappedTimes, len(j.Route))

	var prev time.Duration
	var dayOffset time.Duration
	seen := false

	advance := func(tod time.Duration) time.Duration {
		if seen && tod < prev {
			dayOffset += 24 * time.Hour
		}
		prev = tod
		seen = true
		return dayOffset + tod
	}

	for i, e := range j.Route {
		if e.ArrivalTime != nil {
			v := advance(*e.ArrivalTime)
			out[i].arrival = &v
		}
		if e.DepartureTime != nil {
			v := advance(*e.DepartureTime)
			out[i].departure = &v
		}
	}
	return out
}

// instantWithOrigin resolves the absolute instant of an arrival or
// departure event at targetStopID, given that the event (arrival if
// originIsDeparture is false, departure otherwise) at originStopID is
// known to occur on the calendar day `date`. Route entries carry only
// wall-clock times-of-day, so a journey that crosses midnight needs a
// known-correct anchor stop to disambiguate which calendar day every other
// stop's time-of-day falls on; this walks the journey's own (monotone,
// once midnight-crossings are unwrapped) timeline from that anchor.
func (j *Journey) instantWithOrigin(targetStopID int, wantDeparture bool, date time.Time, originIsDeparture bool, originStopID int) time.Time {
	originIdx := j.stopIndex(originStopID)
	targetIdx := j.stopIndex(targetStopID)
	offsets := j.unwrappedOffsets()

	var originRaw *time.Duration
	var originUnwrapped *time.Duration
	if originIsDeparture {
		originRaw = j.Route[originIdx].DepartureTime
		originUnwrapped = offsets[originIdx].departure
	} else {
		originRaw = j.Route[originIdx].ArrivalTime
		originUnwrapped = offsets[originIdx].arrival
	}
	if originRaw == nil || originUnwrapped == nil {
		Panicf("journey %d: stop %d has no %s time", j.ID, originStopID, timeKindLabel(originIsDeparture))
	}

	var targetUnwrapped *time.Duration
	if wantDeparture {
		targetUnwrapped = offsets[targetIdx].departure
	} else {
		targetUnwrapped = offsets[targetIdx].arrival
	}
	if targetUnwrapped == nil {
		Panicf("journey %d: stop %d has no %s time", j.ID, targetStopID, timeKindLabel(wantDeparture))
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	originInstant := midnight.Add(*originRaw)
	delta := *targetUnwrapped - *originUnwrapped
	return originInstant.Add(delta)
}

func timeKindLabel(departure bool) string {
	if departure {
		return "departure"
	}
	return "arrival"
}

// DepartureAtOf returns the journey's departure instant at stopID on date,
// where date is stopID's own calendar day (no cross-midnight ambiguity).
func (j *Journey) DepartureAtOf(stopID int, date time.Time) time.Time {
	return j.instantWithOrigin(stopID, true, date, true, stopID)
}

// ArrivalAtOfWithOrigin returns the arrival instant at stopID, anchored by
// the known-correct date of originStopID's departure (originIsDeparture
// true) or arrival (false) event.
func (j *Journey) ArrivalAtOfWithOrigin(stopID int, date time.Time, originIsDeparture bool, originStopID int) time.Time {
	return j.instantWithOrigin(stopID, false, date, originIsDeparture, originStopID)
}

// DepartureAtOfWithOrigin returns the departure instant at stopID, anchored
// the same way as ArrivalAtOfWithOrigin.
func (j *Journey) DepartureAtOfWithOrigin(stopID int, date time.Time, originIsDeparture bool, originStopID int) time.Time {
	return j.instantWithOrigin(stopID, true, date, originIsDeparture, originStopID)
}

// RouteSection returns the route entries strictly after fromStopID up to
// and including toStopID, in route order. Used to enumerate the
// intermediate stops a transit section can be refined to terminate at.
func (j *Journey) RouteSection(fromStopID, toStopID int) []RouteEntry {
	fromIdx := j.stopIndex(fromStopID)
	toIdx := j.stopIndex(toStopID)
	if fromIdx >= toIdx {
		return nil
	}
	return j.Route[fromIdx+1 : toIdx+1]
}

// CountStops returns how many stops are crossed boarding at fromStopID and
// alighting at toStopID — used as the "more stops crossed" tie-breaker.
func (j *Journey) CountStops(fromStopID, toStopID int) int {
	return len(j.RouteSection(fromStopID, toStopID))
}

// HashRoute fingerprints the suffix of the journey's static route starting
// at stopID: two journeys boarded at the same stop with the same fingerprint
// are mutually dominated by whichever boards earlier. ok is false if stopID
// is not on the route.
func (j *Journey) HashRoute(stopID int) (fingerprint uint64, ok bool) {
	idx := -1
	for i, e := range j.Route {
		if e.StopID == stopID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, false
	}

	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, e := range j.Route[idx:] {
		binary.LittleEndian.PutUint64(buf, uint64(int64(e.StopID)))
		h.Write(buf)
	}
	return h.Sum64(), true
}
