package domain

import "time"

// TimetableMetadata carries the validity window of a loaded timetable.
type TimetableMetadata struct {
	StartDate time.Time
	EndDate   time.Time
}
