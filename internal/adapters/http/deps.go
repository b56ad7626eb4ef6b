package http

import (
	"github.com/samirrijal/bilbopass/internal/core/ports"
	"github.com/samirrijal/bilbopass/internal/core/timetable"
)

// Dependencies holds everything HTTP handlers need: the loaded timetable
// (immutable, safe for concurrent reads), a result cache for idempotent
// /metadata and /isochrones responses, and a query-telemetry publisher.
type Dependencies struct {
	Timetable    *timetable.Timetable
	Cache        ports.ResultCache
	Publisher    ports.QueryEventPublisher
	StopIDPrefix string
}
