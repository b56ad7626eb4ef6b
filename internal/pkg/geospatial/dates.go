package geospatial

import "time"

// AddDay returns the calendar day following date (both at midnight UTC).
func AddDay(date time.Time) time.Time {
	return date.AddDate(0, 0, 1)
}

// CountDaysBetween returns the inclusive day count from date1 to date2,
// i.e. 1 when date1 == date2. Mirrors the source timetable's convention used
// to index calendar bitsets (see timetable.(*Timetable).exchangeTimeJourneyPair).
func CountDaysBetween(date1, date2 time.Time) int {
	d1 := time.Date(date1.Year(), date1.Month(), date1.Day(), 0, 0, 0, 0, time.UTC)
	d2 := time.Date(date2.Year(), date2.Month(), date2.Day(), 0, 0, 0, 0, time.UTC)
	return int(d2.Sub(d1).Hours()/24) + 1
}
