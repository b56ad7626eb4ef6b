package isochrone

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/bilbopass/internal/pkg/geospatial"
)

// buildGrid samples a regular GridSpacingMeters grid over [min, max] in
// LV95 space. Each cell's duration is the shortest walking-adjusted
// duration among the gridNearestNeighbors closest reached stops, found by
// brute-force distance search (the corpus carries no kd-tree library; see
// DESIGN.md). Rows are computed concurrently via errgroup, mirroring the
// per-row parallelism the reference implementation applies.
func buildGrid(ctx context.Context, data []sample, min, max geospatial.LV95) ([]sample, int, int, error) {
	numX := int(math.Ceil((max.Easting - min.Easting) / GridSpacingMeters))
	numY := int(math.Ceil((max.Northing - min.Northing) / GridSpacingMeters))

	grid := make([]sample, numX*numY)

	g, ctx := errgroup.WithContext(ctx)
	for y := 0; y < numY; y++ {
		y := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			northing := min.Northing + GridSpacingMeters*float64(y)
			for x := 0; x < numX; x++ {
				easting := min.Easting + GridSpacingMeters*float64(x)
				coord := geospatial.LV95{Easting: easting, Northing: northing}
				grid[y*numX+x] = sample{coord: coord, duration: nearestNeighborDuration(data, coord)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, 0, err
	}

	return grid, numX, numY, nil
}

// nearestNeighborDuration blends the gridNearestNeighbors closest reached
// stops: each contributes the time it would take to reach the grid point
// by walking from that stop, and the minimum across all of them wins.
func nearestNeighborDuration(data []sample, coord geospatial.LV95) time.Duration {
	type ranked struct {
		distance float64
		s        sample
	}

	candidates := make([]ranked, len(data))
	for i, s := range data {
		candidates[i] = ranked{distance: geospatial.DistanceLV95(coord, s.coord), s: s}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distance < candidates[j].distance })

	k := gridNearestNeighbors
	if k > len(candidates) {
		k = len(candidates)
	}

	best := time.Duration(math.MaxInt64)
	for _, r := range candidates[:k] {
		candidate := r.s.duration + geospatial.DistanceToTime(r.distance, WalkingSpeedKmh)
		if candidate < best {
			best = candidate
		}
	}
	return best
}
