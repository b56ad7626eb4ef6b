package isochrone

import "github.com/samirrijal/bilbopass/internal/pkg/geospatial"

// DisplayMode selects how an isochrone's reachable area is rendered.
type DisplayMode int

const (
	// Circles draws one 18-gon disc per reached stop.
	Circles DisplayMode = iota
	// ContourLine traces unsmoothed boundary rings over a sampled grid.
	ContourLine
)

// ParseDisplayMode resolves the wire representation of a display mode.
func ParseDisplayMode(s string) (DisplayMode, bool) {
	switch s {
	case "circles":
		return Circles, true
	case "contour_line":
		return ContourLine, true
	default:
		return 0, false
	}
}

func (m DisplayMode) String() string {
	switch m {
	case Circles:
		return "circles"
	case ContourLine:
		return "contour_line"
	default:
		return "unknown"
	}
}

// BoundingBox is a WGS84 axis-aligned rectangle.
type BoundingBox struct {
	Min geospatial.WGS84 `json:"min"`
	Max geospatial.WGS84 `json:"max"`
}

// Isochrone is one reachable-area boundary at a given time limit.
type Isochrone struct {
	Polygons         [][]geospatial.WGS84
	TimeLimitMinutes uint32
}

// Map is the full result of an isochrone computation: one Isochrone per
// requested time step, plus the stop the walk started from and the area
// they collectively cover.
type Map struct {
	Isochrones         []Isochrone      `json:"isochrones"`
	DepartureStopCoord geospatial.WGS84 `json:"departure_stop_coord"`
	BoundingBox        BoundingBox      `json:"bounding_box"`
}
