package hrdfcsv

// StopRecord is one row of stops.csv.
type StopRecord struct {
	ID                  int     `csv:"stop_id"`
	Name                string  `csv:"name"`
	LV95Easting         float64 `csv:"lv95_easting"`
	LV95Northing        float64 `csv:"lv95_northing"`
	CanBeExchangePoint  bool    `csv:"can_be_exchange_point"`
	HasDefaultExchange  bool    `csv:"has_default_exchange"`
	DefaultExchangeICIC int16   `csv:"default_exchange_ic_to_ic"`
	DefaultExchangeOther int16  `csv:"default_exchange_other"`
}

// JourneyRecord is one row of journeys.csv: a journey's metadata and the
// calendar bitfield that governs which days it operates.
type JourneyRecord struct {
	ID                 int    `csv:"journey_id"`
	Administration     string `csv:"administration"`
	TransportTypeID    int    `csv:"transport_type_id"`
	TransportDesignation string `csv:"transport_designation"`
	CalendarBitFieldID int    `csv:"calendar_bitfield_id"`
}

// JourneyStopRecord is one row of journey_stops.csv: one stop visited by a
// journey, in route order (sequence is 0-based and strictly increasing
// within a journey_id). arrival_time/departure_time are "HH:MM:SS" strings,
// empty at a journey's first (no arrival) or last (no departure) stop.
type JourneyStopRecord struct {
	JourneyID     int    `csv:"journey_id"`
	Sequence      int    `csv:"sequence"`
	StopID        int    `csv:"stop_id"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

// StopConnectionRecord is one row of stop_connections.csv.
type StopConnectionRecord struct {
	StopID1         int   `csv:"stop_id_1"`
	StopID2         int   `csv:"stop_id_2"`
	DurationMinutes int16 `csv:"duration_minutes"`
}

// BitFieldRecord is one row of bitfields.csv. Bits is a string of '0'/'1'
// characters, one per index; index 0 is the field's own "bit 0", not a
// calendar day — see buildBitFieldsByDay and
// timetable.(*Timetable).exchangeTimeJourneyPair for how calendar and
// exchange-time lookups interpret it.
type BitFieldRecord struct {
	ID   int    `csv:"bitfield_id"`
	Bits string `csv:"bits"`
}

// ExchangeJourneyRecord is one row of exchange_journey.csv: a journey-pair
// exchange-time override at a stop. BitFieldID is -1 when the override is
// unconditional (applies on every operating day).
type ExchangeJourneyRecord struct {
	StopID          int   `csv:"stop_id"`
	JourneyID1      int   `csv:"journey_id_1"`
	JourneyID2      int   `csv:"journey_id_2"`
	BitFieldID      int   `csv:"bitfield_id"`
	DurationMinutes int16 `csv:"duration_minutes"`
}

// ExchangeAdminRecord is one row of exchange_admin.csv: an
// administration-pair exchange-time override. StopID is -1 for the global
// (stop-independent) tier.
type ExchangeAdminRecord struct {
	StopID          int    `csv:"stop_id"`
	Administration1 string `csv:"administration_1"`
	Administration2 string `csv:"administration_2"`
	DurationMinutes int16  `csv:"duration_minutes"`
}

// MetadataRecord is the single row of metadata.csv: the timetable's
// validity window and system-wide default exchange time.
type MetadataRecord struct {
	StartDate               string `csv:"start_date"`
	EndDate                 string `csv:"end_date"`
	DefaultExchangeICToIC   int16  `csv:"default_exchange_ic_to_ic"`
	DefaultExchangeOther    int16  `csv:"default_exchange_other"`
}
