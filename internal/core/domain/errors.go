package domain

import "fmt"

// InvariantViolation signals internal inconsistency in the timetable data —
// e.g. a journey referencing a stop that doesn't exist. The core never
// attempts a partial answer once one of these is hit; callers let it panic
// and surface the diagnostic.
type InvariantViolation struct {
	Message string
}

func (e InvariantViolation) Error() string {
	return e.Message
}

// Panicf raises an InvariantViolation with a formatted message. Used at
// lookup sites that can only fail if the timetable itself is malformed.
func Panicf(format string, args ...any) {
	panic(InvariantViolation{Message: fmt.Sprintf(format, args...)})
}
