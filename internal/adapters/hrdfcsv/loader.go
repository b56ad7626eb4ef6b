// Package hrdfcsv loads a timetable from a directory of HRDF-derived CSV
// fixtures: stops.csv, journeys.csv, journey_stops.csv, stop_connections.csv,
// bitfields.csv, exchange_journey.csv, exchange_admin.csv and metadata.csv.
// It is the reference ports.TimetableSource for tests, local development and
// the CLI demo — production deployments load the same shape from Postgres
// (see internal/adapters/postgres).
package hrdfcsv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// Source loads a RawTimetable from a directory of CSV fixtures.
type Source struct {
	Dir string
}

// New returns a Source reading fixtures from dir.
func New(dir string) *Source {
	return &Source{Dir: dir}
}

func (s *Source) Load(ctx context.Context) (*ports.RawTimetable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metadata, systemDefaultExchange, err := s.loadMetadata()
	if err != nil {
		return nil, err
	}

	stopRecords, err := readCSV[StopRecord](s.path("stops.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: stops.csv: %w", err)
	}
	journeyRecords, err := readCSV[JourneyRecord](s.path("journeys.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: journeys.csv: %w", err)
	}
	journeyStopRecords, err := readCSV[JourneyStopRecord](s.path("journey_stops.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: journey_stops.csv: %w", err)
	}
	connRecords, err := readCSV[StopConnectionRecord](s.path("stop_connections.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: stop_connections.csv: %w", err)
	}
	bitFieldRecords, err := readCSV[BitFieldRecord](s.path("bitfields.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: bitfields.csv: %w", err)
	}
	exchangeJourneyRecords, err := readCSV[ExchangeJourneyRecord](s.path("exchange_journey.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: exchange_journey.csv: %w", err)
	}
	exchangeAdminRecords, err := readCSV[ExchangeAdminRecord](s.path("exchange_admin.csv"))
	if err != nil {
		return nil, fmt.Errorf("hrdfcsv: exchange_admin.csv: %w", err)
	}

	stops, err := buildStops(stopRecords)
	if err != nil {
		return nil, err
	}

	journeys, err := buildJourneys(journeyRecords, journeyStopRecords)
	if err != nil {
		return nil, err
	}

	stopConnections := make([]domain.StopConnection, 0, len(connRecords))
	for _, r := range connRecords {
		stopConnections = append(stopConnections, domain.StopConnection{
			StopID1: r.StopID1, StopID2: r.StopID2, DurationMinutes: r.DurationMinutes,
		})
	}

	bitFields, bitFieldsByID, err := buildBitFields(bitFieldRecords)
	if err != nil {
		return nil, err
	}

	bitFieldsByStop, journeysByStopAndBit := buildCalendarIndices(journeyRecords, journeyStopRecords)

	bitFieldsByDay, err := buildBitFieldsByDay(bitFields, metadata)
	if err != nil {
		return nil, err
	}

	exchangeTimesJourney := make(map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry)
	for _, r := range exchangeJourneyRecords {
		key := ports.ExchangeJourneyKey{StopID: r.StopID, JourneyID1: r.JourneyID1, JourneyID2: r.JourneyID2}
		var bitFieldID *int
		if r.BitFieldID >= 0 {
			if _, ok := bitFieldsByID[r.BitFieldID]; !ok {
				return nil, fmt.Errorf("hrdfcsv: exchange_journey.csv references unknown bitfield_id %d", r.BitFieldID)
			}
			id := r.BitFieldID
			bitFieldID = &id
		}
		exchangeTimesJourney[key] = append(exchangeTimesJourney[key], domain.ExchangeTimeJourneyEntry{
			BitFieldID: bitFieldID, DurationMinutes: r.DurationMinutes,
		})
	}

	exchangeTimesAdmin := make(map[ports.ExchangeAdminKey]int16)
	for _, r := range exchangeAdminRecords {
		var stopID *int
		if r.StopID >= 0 {
			id := r.StopID
			stopID = &id
		}
		exchangeTimesAdmin[ports.ExchangeAdminKey{
			StopID: stopID, Administration1: r.Administration1, Administration2: r.Administration2,
		}] = r.DurationMinutes
	}

	return &ports.RawTimetable{
		Metadata:             metadata,
		Stops:                stops,
		Journeys:             journeys,
		StopConnections:      stopConnections,
		BitFields:            bitFields,
		BitFieldsByDay:       bitFieldsByDay,
		BitFieldsByStop:      bitFieldsByStop,
		JourneysByStopAndBit: journeysByStopAndBit,
		ExchangeTimesJourney: exchangeTimesJourney,
		ExchangeTimesAdmin:   exchangeTimesAdmin,
		DefaultExchangeTime:  systemDefaultExchange,
	}, nil
}

func (s *Source) path(name string) string {
	return filepath.Join(s.Dir, name)
}

func (s *Source) loadMetadata() (domain.TimetableMetadata, domain.ExchangeTimePair, error) {
	records, err := readCSV[MetadataRecord](s.path("metadata.csv"))
	if err != nil {
		return domain.TimetableMetadata{}, domain.ExchangeTimePair{}, fmt.Errorf("hrdfcsv: metadata.csv: %w", err)
	}
	if len(records) != 1 {
		return domain.TimetableMetadata{}, domain.ExchangeTimePair{}, fmt.Errorf("hrdfcsv: metadata.csv must have exactly one row, got %d", len(records))
	}
	r := records[0]

	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return domain.TimetableMetadata{}, domain.ExchangeTimePair{}, fmt.Errorf("hrdfcsv: metadata.csv start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return domain.TimetableMetadata{}, domain.ExchangeTimePair{}, fmt.Errorf("hrdfcsv: metadata.csv end_date: %w", err)
	}

	metadata := domain.TimetableMetadata{StartDate: start, EndDate: end}
	defaultExchange := domain.ExchangeTimePair{ICToIC: r.DefaultExchangeICToIC, Other: r.DefaultExchangeOther}
	return metadata, defaultExchange, nil
}

func buildStops(records []StopRecord) ([]domain.Stop, error) {
	stops := make([]domain.Stop, 0, len(records))
	for _, r := range records {
		stop := domain.Stop{
			ID:                       r.ID,
			Name:                     r.Name,
			CanBeUsedAsExchangePoint: r.CanBeExchangePoint,
		}
		if r.LV95Easting != 0 || r.LV95Northing != 0 {
			lv95 := geospatial.LV95{Easting: r.LV95Easting, Northing: r.LV95Northing}
			wgs84 := geospatial.LV95ToWGS84(lv95)
			stop.LV95 = &lv95
			stop.WGS84 = &wgs84
		}
		if r.HasDefaultExchange {
			stop.DefaultExchangeTime = &domain.ExchangeTimePair{
				ICToIC: r.DefaultExchangeICIC, Other: r.DefaultExchangeOther,
			}
		}
		stops = append(stops, stop)
	}
	return stops, nil
}

func buildJourneys(journeyRecords []JourneyRecord, stopRecords []JourneyStopRecord) ([]domain.Journey, error) {
	byJourney := make(map[int][]JourneyStopRecord)
	for _, r := range stopRecords {
		byJourney[r.JourneyID] = append(byJourney[r.JourneyID], r)
	}

	journeys := make([]domain.Journey, 0, len(journeyRecords))
	for _, jr := range journeyRecords {
		entries := byJourney[jr.ID]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Sequence < entries[j].Sequence })

		route := make([]domain.RouteEntry, 0, len(entries))
		for _, e := range entries {
			entry := domain.RouteEntry{StopID: e.StopID}
			if e.ArrivalTime != "" {
				d, err := parseTimeOfDay(e.ArrivalTime)
				if err != nil {
					return nil, fmt.Errorf("hrdfcsv: journey %d stop %d arrival_time: %w", jr.ID, e.StopID, err)
				}
				entry.ArrivalTime = &d
			}
			if e.DepartureTime != "" {
				d, err := parseTimeOfDay(e.DepartureTime)
				if err != nil {
					return nil, fmt.Errorf("hrdfcsv: journey %d stop %d departure_time: %w", jr.ID, e.StopID, err)
				}
				entry.DepartureTime = &d
			}
			route = append(route, entry)
		}

		if len(route) < 2 {
			return nil, fmt.Errorf("hrdfcsv: journey %d has fewer than 2 stops", jr.ID)
		}

		journeys = append(journeys, domain.Journey{
			ID:             jr.ID,
			Administration: jr.Administration,
			TransportType: domain.TransportType{
				ID: jr.TransportTypeID, Designation: jr.TransportDesignation,
			},
			Route: route,
		})
	}
	return journeys, nil
}

func buildBitFields(records []BitFieldRecord) ([]domain.BitField, map[int]domain.BitField, error) {
	bitFields := make([]domain.BitField, 0, len(records))
	byID := make(map[int]domain.BitField, len(records))
	for _, r := range records {
		bits := make([]bool, len(r.Bits))
		for i, c := range r.Bits {
			switch c {
			case '1':
				bits[i] = true
			case '0':
				bits[i] = false
			default:
				return nil, nil, fmt.Errorf("hrdfcsv: bitfield %d: invalid character %q at index %d", r.ID, c, i)
			}
		}
		bf := domain.BitField{ID: r.ID, Bits: bits}
		bitFields = append(bitFields, bf)
		byID[r.ID] = bf
	}
	return bitFields, byID, nil
}

// buildCalendarIndices derives, from each journey's calendar bitfield id and
// the stops it visits, the two indices OperatingJourneys relies on: which
// bitset ids are in play at a stop, and which journeys a (stop, bit) pair
// resolves to.
func buildCalendarIndices(journeyRecords []JourneyRecord, stopRecords []JourneyStopRecord) (map[int][]int, map[[2]int][]int) {
	stopsByJourney := make(map[int][]int)
	for _, r := range stopRecords {
		stopsByJourney[r.JourneyID] = append(stopsByJourney[r.JourneyID], r.StopID)
	}

	bitFieldsByStop := make(map[int]map[int]struct{})
	journeysByStopAndBit := make(map[[2]int][]int)

	for _, jr := range journeyRecords {
		for _, stopID := range stopsByJourney[jr.ID] {
			if bitFieldsByStop[stopID] == nil {
				bitFieldsByStop[stopID] = make(map[int]struct{})
			}
			bitFieldsByStop[stopID][jr.CalendarBitFieldID] = struct{}{}
			key := [2]int{stopID, jr.CalendarBitFieldID}
			journeysByStopAndBit[key] = append(journeysByStopAndBit[key], jr.ID)
		}
	}

	out := make(map[int][]int, len(bitFieldsByStop))
	for stopID, set := range bitFieldsByStop {
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out[stopID] = ids
	}
	return out, journeysByStopAndBit
}

// buildBitFieldsByDay precomputes, for every day in the timetable's validity
// window, which bitset ids are active that day. Uses the same "2 +
// CountDaysBetween(day, endDate) - 1" offset the journey-pair exchange-time
// lookup uses (see timetable.(*Timetable).exchangeTimeJourneyPair) so a
// bitfield means the same thing whether it's consulted as a journey's
// operating calendar or as an exchange-time override's condition.
func buildBitFieldsByDay(bitFields []domain.BitField, metadata domain.TimetableMetadata) (ports.BitFieldsByDay, error) {
	out := make(ports.BitFieldsByDay)
	start := dayAt(metadata.StartDate)
	end := dayAt(metadata.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("hrdfcsv: metadata end_date before start_date")
	}

	for day := start; !day.After(end); day = geospatial.AddDay(day) {
		index := 2 + geospatial.CountDaysBetween(day, metadata.EndDate) - 1
		var active []int
		for _, bf := range bitFields {
			if bf.Active(index) {
				active = append(active, bf.ID)
			}
		}
		if len(active) > 0 {
			out[day] = active
		}
	}
	return out, nil
}

func dayAt(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, err
		}
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
}

func readCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*T
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, err
	}
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = *r
	}
	return out, nil
}
