package isochrone

// WalkingSpeedKmh is the walking speed assumed for every foot connection in
// isochrone computation: the approach to the nearest stop and the padding
// applied outward from every reached stop when building the bounding box
// and grid. Stop connections used while exploring keep their own fixed
// durations.
const WalkingSpeedKmh = 4.0

// GridSpacingMeters is the cell size of the contour-line sampling grid, in
// LV95 metres.
const GridSpacingMeters = 100.0

// gridNearestNeighbors is how many of the nearest reached stops are
// blended (by walking-adjusted duration) into each grid cell's value.
const gridNearestNeighbors = 10
