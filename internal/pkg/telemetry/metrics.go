package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Routing
	MetricRoutingRoundsExplored = "routing.rounds_explored"
	MetricRoutingNotFound       = "routing.journey_not_found"

	// Isochrone
	MetricIsochroneGridCells = "isochrone.grid_cells_computed"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Timetable
	MetricTimetableLoadDuration = "timetable.load_duration_seconds"
	MetricTimetableStopCount    = "timetable.stop_count"
)
