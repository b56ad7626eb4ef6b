package routing

import "time"

// MaxRounds caps the number of transfers any solution may contain; the
// reference implementation uses this literal without further
// justification, so it is preserved as a named constant rather than
// re-engineered. See DESIGN.md.
const MaxRounds = 8

// nextDeparturesLookback is the 4-hour window subtracted from the latest
// departure seen on the query day before deciding whether to also load the
// next day's journeys. Like MaxRounds, the source material offers no
// rationale for this figure; preserved as-is.
const nextDeparturesLookback = 4 * time.Hour

// nextDeparturesNextDayCutoff is the latest time of day, on the day after
// the query date, that a boarding may still be considered.
const nextDeparturesNextDayCutoff = 8 * time.Hour

// DefaultStopIDPrefix is the Swiss-national-stop filter the isochrone
// builder applies ("85…"), a convention of the underlying timetable rather
// than a core algorithmic constant. ComputeIsochrones always uses this
// constant; the timetable.stop_id_prefix setting does not change it.
const DefaultStopIDPrefix = "85"
