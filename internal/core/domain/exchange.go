package domain

// ExchangeTimeJourneyEntry is one row of the journey-pair exchange-time
// table for a (stop, journey_1, journey_2) key. BitFieldID nil means the
// entry applies unconditionally; otherwise it applies only on calendar days
// where that bitset is active — see the lookup order in
// timetable.(*Timetable).ExchangeTime.
type ExchangeTimeJourneyEntry struct {
	BitFieldID      *int
	DurationMinutes int16
}
