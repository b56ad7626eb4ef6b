package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/samirrijal/bilbopass/internal/core/domain"
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// TimetableSource loads a RawTimetable from a staged Postgres schema — the
// production counterpart of hrdfcsv.Source, both bound to the same
// ports.RawTimetable shape so timetable.Build never needs to know which one
// fed it.
type TimetableSource struct {
	db *DB
}

var _ ports.TimetableSource = (*TimetableSource)(nil)

// NewTimetableSource wraps an existing connection pool.
func NewTimetableSource(db *DB) *TimetableSource {
	return &TimetableSource{db: db}
}

func (s *TimetableSource) Load(ctx context.Context) (*ports.RawTimetable, error) {
	metadata, defaultExchange, err := s.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}

	stops, err := s.loadStops(ctx)
	if err != nil {
		return nil, err
	}

	journeys, err := s.loadJourneys(ctx)
	if err != nil {
		return nil, err
	}

	connections, err := s.loadStopConnections(ctx)
	if err != nil {
		return nil, err
	}

	bitfields, err := s.loadBitFields(ctx)
	if err != nil {
		return nil, err
	}

	exchangeJourney, err := s.loadExchangeJourney(ctx)
	if err != nil {
		return nil, err
	}

	exchangeAdmin, err := s.loadExchangeAdmin(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.RawTimetable{
		Metadata:             metadata,
		Stops:                stops,
		Journeys:             journeys,
		StopConnections:      connections,
		BitFields:            bitfields,
		ExchangeTimesJourney: exchangeJourney,
		ExchangeTimesAdmin:   exchangeAdmin,
		DefaultExchangeTime:  defaultExchange,
		// BitFieldsByDay, BitFieldsByStop, and JourneysByStopAndBit are
		// derived indices — timetable.Build computes them from the above,
		// same as it does for the CSV loader's output.
	}, nil
}

func (s *TimetableSource) loadMetadata(ctx context.Context) (domain.TimetableMetadata, domain.ExchangeTimePair, error) {
	var meta domain.TimetableMetadata
	var pair domain.ExchangeTimePair

	row := s.db.Pool.QueryRow(ctx, `
		SELECT start_date, end_date, default_exchange_ic_to_ic, default_exchange_other
		FROM timetable_metadata
		LIMIT 1`)
	if err := row.Scan(&meta.StartDate, &meta.EndDate, &pair.ICToIC, &pair.Other); err != nil {
		return meta, pair, fmt.Errorf("load timetable_metadata: %w", err)
	}
	return meta, pair, nil
}

func (s *TimetableSource) loadStops(ctx context.Context) ([]domain.Stop, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, lv95_e, lv95_n, wgs84_lat, wgs84_lng,
		       can_be_exchange_point, default_exchange_ic_to_ic, default_exchange_other
		FROM stops`)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	defer rows.Close()

	var stops []domain.Stop
	for rows.Next() {
		var st domain.Stop
		var lv95E, lv95N *float64
		var lat, lng *float64
		var icToIC, other *int16

		if err := rows.Scan(&st.ID, &st.Name, &lv95E, &lv95N, &lat, &lng,
			&st.CanBeUsedAsExchangePoint, &icToIC, &other); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		if lv95E != nil && lv95N != nil {
			st.LV95 = &geospatial.LV95{Easting: *lv95E, Northing: *lv95N}
		}
		if lat != nil && lng != nil {
			st.WGS84 = &geospatial.WGS84{Latitude: *lat, Longitude: *lng}
		}
		if icToIC != nil && other != nil {
			st.DefaultExchangeTime = &domain.ExchangeTimePair{ICToIC: *icToIC, Other: *other}
		}
		stops = append(stops, st)
	}
	return stops, rows.Err()
}

func (s *TimetableSource) loadJourneys(ctx context.Context) ([]domain.Journey, error) {
	journeyRows, err := s.db.Pool.Query(ctx, `
		SELECT id, administration, transport_type_id, transport_type_designation
		FROM journeys
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query journeys: %w", err)
	}
	defer journeyRows.Close()

	var journeys []domain.Journey
	for journeyRows.Next() {
		var j domain.Journey
		if err := journeyRows.Scan(&j.ID, &j.Administration, &j.TransportType.ID, &j.TransportType.Designation); err != nil {
			return nil, fmt.Errorf("scan journey: %w", err)
		}
		journeys = append(journeys, j)
	}
	if err := journeyRows.Err(); err != nil {
		return nil, err
	}

	stopRows, err := s.db.Pool.Query(ctx, `
		SELECT journey_id, stop_id, arrival_seconds, departure_seconds, sequence
		FROM journey_stops
		ORDER BY journey_id, sequence`)
	if err != nil {
		return nil, fmt.Errorf("query journey_stops: %w", err)
	}
	defer stopRows.Close()

	routes := make(map[int][]domain.RouteEntry)
	for stopRows.Next() {
		var journeyID, stopID, sequence int
		var arrivalSeconds, departureSeconds *int

		if err := stopRows.Scan(&journeyID, &stopID, &arrivalSeconds, &departureSeconds, &sequence); err != nil {
			return nil, fmt.Errorf("scan journey_stop: %w", err)
		}
		routes[journeyID] = append(routes[journeyID], domain.RouteEntry{
			StopID:        stopID,
			ArrivalTime:   secondsToDuration(arrivalSeconds),
			DepartureTime: secondsToDuration(departureSeconds),
		})
	}
	if err := stopRows.Err(); err != nil {
		return nil, err
	}

	for i := range journeys {
		journeys[i].Route = routes[journeys[i].ID]
	}
	return journeys, nil
}

func (s *TimetableSource) loadStopConnections(ctx context.Context) ([]domain.StopConnection, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT stop_id_1, stop_id_2, duration_minutes FROM stop_connections`)
	if err != nil {
		return nil, fmt.Errorf("query stop_connections: %w", err)
	}
	defer rows.Close()

	var connections []domain.StopConnection
	for rows.Next() {
		var c domain.StopConnection
		if err := rows.Scan(&c.StopID1, &c.StopID2, &c.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan stop_connection: %w", err)
		}
		connections = append(connections, c)
	}
	return connections, rows.Err()
}

func (s *TimetableSource) loadBitFields(ctx context.Context) ([]domain.BitField, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT id, bits FROM bitfields`)
	if err != nil {
		return nil, fmt.Errorf("query bitfields: %w", err)
	}
	defer rows.Close()

	var bitfields []domain.BitField
	for rows.Next() {
		var id int
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan bitfield: %w", err)
		}
		bits := make([]bool, len(raw))
		for i, c := range raw {
			bits[i] = c == '1'
		}
		bitfields = append(bitfields, domain.BitField{ID: id, Bits: bits})
	}
	return bitfields, rows.Err()
}

func (s *TimetableSource) loadExchangeJourney(ctx context.Context) (map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT stop_id, journey_id_1, journey_id_2, bitfield_id, duration_minutes
		FROM exchange_journey`)
	if err != nil {
		return nil, fmt.Errorf("query exchange_journey: %w", err)
	}
	defer rows.Close()

	result := make(map[ports.ExchangeJourneyKey][]domain.ExchangeTimeJourneyEntry)
	for rows.Next() {
		var key ports.ExchangeJourneyKey
		var bitfieldID *int
		var duration int16

		if err := rows.Scan(&key.StopID, &key.JourneyID1, &key.JourneyID2, &bitfieldID, &duration); err != nil {
			return nil, fmt.Errorf("scan exchange_journey: %w", err)
		}
		result[key] = append(result[key], domain.ExchangeTimeJourneyEntry{BitFieldID: bitfieldID, DurationMinutes: duration})
	}
	return result, rows.Err()
}

func (s *TimetableSource) loadExchangeAdmin(ctx context.Context) (map[ports.ExchangeAdminKey]int16, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT stop_id, administration_1, administration_2, duration_minutes
		FROM exchange_admin`)
	if err != nil {
		return nil, fmt.Errorf("query exchange_admin: %w", err)
	}
	defer rows.Close()

	result := make(map[ports.ExchangeAdminKey]int16)
	for rows.Next() {
		var stopID *int
		var admin1, admin2 string
		var duration int16

		if err := rows.Scan(&stopID, &admin1, &admin2, &duration); err != nil {
			return nil, fmt.Errorf("scan exchange_admin: %w", err)
		}
		result[ports.ExchangeAdminKey{StopID: stopID, Administration1: admin1, Administration2: admin2}] = duration
	}
	return result, rows.Err()
}

func secondsToDuration(seconds *int) *time.Duration {
	if seconds == nil {
		return nil
	}
	d := time.Duration(*seconds) * time.Second
	return &d
}
