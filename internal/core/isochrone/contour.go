package isochrone

import (
	"fmt"
	"time"

	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// gridCoord is a point in fractional grid-index space: (0,0) is the grid's
// min corner, units are whole cells.
type gridCoord struct{ x, y float64 }

type segment struct{ a, b gridCoord }

// contourPolygons extracts the 0.5-level contour of a binary "reachable
// within timeLimit" field over the grid (values at or under the limit are
// 1, the rest 0), returning each traced ring converted back to WGS84.
func contourPolygons(grid []sample, numX, numY int, minLV95 geospatial.LV95, timeLimit time.Duration) [][]geospatial.WGS84 {
	if numX < 2 || numY < 2 {
		return nil
	}

	value := func(x, y int) float64 {
		if grid[y*numX+x].duration <= timeLimit {
			return 1
		}
		return 0
	}

	var segments []segment
	for y := 0; y < numY-1; y++ {
		for x := 0; x < numX-1; x++ {
			segments = append(segments, marchCell(x, y, value)...)
		}
	}

	rings := traceRings(segments)

	polygons := make([][]geospatial.WGS84, 0, len(rings))
	for _, ring := range rings {
		polygon := make([]geospatial.WGS84, len(ring))
		for i, p := range ring {
			lv95 := geospatial.LV95{
				Easting:  minLV95.Easting + GridSpacingMeters*p.x,
				Northing: minLV95.Northing + GridSpacingMeters*p.y,
			}
			polygon[i] = geospatial.LV95ToWGS84(lv95)
		}
		polygons = append(polygons, polygon)
	}
	return polygons
}

// marchCell applies the standard 16-case marching-squares table to the
// cell whose bottom-left grid index is (x, y), returning 0, 1, or 2
// contour segments at the 0.5 level. Corners are named bottom-left (a),
// bottom-right (b), top-right (c), top-left (d); the two ambiguous cases
// (5 and 10) are resolved with a fixed diagonal, as is conventional.
func marchCell(x, y int, value func(x, y int) float64) []segment {
	const level = 0.5

	a := value(x, y)
	b := value(x+1, y)
	c := value(x+1, y+1)
	d := value(x, y+1)

	lerp := func(v0, v1 float64) float64 {
		if v1 == v0 {
			return 0.5
		}
		return (level - v0) / (v1 - v0)
	}

	bottom := gridCoord{float64(x) + lerp(a, b), float64(y)}
	right := gridCoord{float64(x + 1), float64(y) + lerp(b, c)}
	top := gridCoord{float64(x) + lerp(d, c), float64(y + 1)}
	left := gridCoord{float64(x), float64(y) + lerp(a, d)}

	bit := func(v float64) int {
		if v >= level {
			return 1
		}
		return 0
	}
	code := bit(a) | bit(b)<<1 | bit(c)<<2 | bit(d)<<3

	switch code {
	case 0, 15:
		return nil
	case 1, 14:
		return []segment{{left, bottom}}
	case 2, 13:
		return []segment{{bottom, right}}
	case 3, 12:
		return []segment{{left, right}}
	case 4, 11:
		return []segment{{right, top}}
	case 6, 9:
		return []segment{{bottom, top}}
	case 7, 8:
		return []segment{{left, top}}
	case 5:
		return []segment{{left, top}, {bottom, right}}
	case 10:
		return []segment{{bottom, left}, {right, top}}
	default:
		panic(fmt.Sprintf("isochrone: unreachable marching-squares case %d", code))
	}
}

// traceRings chains unordered segments sharing endpoints into closed
// rings. Endpoints are matched by exact float equality, which holds here
// because shared cell edges always interpolate from the same pair of
// corner values.
func traceRings(segments []segment) [][]gridCoord {
	type key struct{ x, y float64 }
	toKey := func(p gridCoord) key { return key{p.x, p.y} }

	adjacency := make(map[key][]int)
	for i, s := range segments {
		adjacency[toKey(s.a)] = append(adjacency[toKey(s.a)], i)
		adjacency[toKey(s.b)] = append(adjacency[toKey(s.b)], i)
	}

	used := make([]bool, len(segments))
	var rings [][]gridCoord

	for start := range segments {
		if used[start] {
			continue
		}

		ring := []gridCoord{segments[start].a, segments[start].b}
		used[start] = true
		current := segments[start].b

		for {
			candidates := adjacency[toKey(current)]
			next := -1
			for _, idx := range candidates {
				if !used[idx] {
					next = idx
					break
				}
			}
			if next == -1 {
				break
			}
			used[next] = true

			seg := segments[next]
			nextPoint := seg.a
			if seg.a == current {
				nextPoint = seg.b
			}
			ring = append(ring, nextPoint)
			current = nextPoint

			if current == ring[0] {
				break
			}
		}

		rings = append(rings, ring)
	}
	return rings
}
