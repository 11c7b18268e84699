// Package tile maps WGS84 coordinates onto a fixed global grid of ~150 m
// cells identified by geohash strings. The encoding is the canonical geohash
// base32 scheme, so ids are stable across process runs and interoperate with
// any standard geohash implementation.
package tile

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/tilerun/territory-backend-go/internal/spatial"
)

const (
	// Precision is the process-wide geohash precision for tile ids.
	// Level 7 cells are roughly 153 m x 153 m at the equator.
	Precision = 7

	// Grid-sampling parameters for Intersecting. The step must stay well
	// below one tile's angular size (~0.0014 deg at precision 7) and below
	// the narrowest expected claim polygon; the margin pads the bounding
	// box so edge tiles are not missed. Tuned empirically, not derived.
	scanStepDeg   = 0.0005
	scanMarginDeg = 0.0015
)

// IDFor returns the tile id containing the coordinate. The id is a pure
// function of (lat, lng, Precision): the same coordinate always maps to the
// same tile.
func IDFor(lat, lng float64) string {
	return encodeGeohash(lat, lng, Precision)
}

// BoundsOf returns the bounding box of a tile. A malformed id is a
// precondition failure (caller bug), reported as an error rather than a
// validation verdict.
func BoundsOf(id string) (spatial.Bounds, error) {
	if len(id) != Precision {
		return spatial.Bounds{}, fmt.Errorf("tile: invalid id %q: want %d characters", id, Precision)
	}
	for i := 0; i < len(id); i++ {
		if indexOfBase32(id[i]) == -1 {
			return spatial.Bounds{}, fmt.Errorf("tile: invalid id %q: bad character %q", id, id[i])
		}
	}

	minLat, minLng, maxLat, maxLng := geohashBounds(id)
	return spatial.Bounds{MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng}, nil
}

// Polygon returns the tile's bounding rectangle as a closed 5-point ring in
// [lng, lat] order (first point repeated last).
func Polygon(id string) (orb.Ring, error) {
	b, err := BoundsOf(id)
	if err != nil {
		return nil, err
	}

	return orb.Ring{
		{b.MinLng, b.MinLat},
		{b.MaxLng, b.MinLat},
		{b.MaxLng, b.MaxLat},
		{b.MinLng, b.MaxLat},
		{b.MinLng, b.MinLat},
	}, nil
}

// Center returns the center point of a tile
func Center(id string) (spatial.Point, error) {
	b, err := BoundsOf(id)
	if err != nil {
		return spatial.Point{}, err
	}
	return spatial.Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}, nil
}

// Intersecting returns the distinct tiles whose rectangles intersect the
// polygon, in stable discovery order (south-to-north, west-to-east scan).
// The scan samples the polygon's padded bounding box on a fixed-degree grid
// and tests each candidate tile against the polygon; it is an approximation
// that holds as long as scanStepDeg stays well under both the tile size and
// the polygon width.
func Intersecting(poly orb.Polygon) []string {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return nil
	}

	bound := poly.Bound()
	scan := spatial.Bounds{
		MinLat: bound.Min.Y(), MaxLat: bound.Max.Y(),
		MinLng: bound.Min.X(), MaxLng: bound.Max.X(),
	}.Expand(scanMarginDeg)

	var ids []string
	tested := make(map[string]struct{})

	for lat := scan.MinLat; lat <= scan.MaxLat; lat += scanStepDeg {
		for lng := scan.MinLng; lng <= scan.MaxLng; lng += scanStepDeg {
			id := IDFor(lat, lng)
			if _, seen := tested[id]; seen {
				continue
			}
			tested[id] = struct{}{}

			if tileIntersects(id, poly) {
				ids = append(ids, id)
			}
		}
	}

	return ids
}

// tileIntersects tests whether a tile's rectangle intersects the polygon.
// Either a corner/center of the tile falls inside the polygon, or a polygon
// vertex falls inside the tile.
func tileIntersects(id string, poly orb.Polygon) bool {
	b, err := BoundsOf(id)
	if err != nil {
		return false
	}

	probes := []orb.Point{
		{b.MinLng, b.MinLat},
		{b.MaxLng, b.MinLat},
		{b.MaxLng, b.MaxLat},
		{b.MinLng, b.MaxLat},
		{(b.MinLng + b.MaxLng) / 2, (b.MinLat + b.MaxLat) / 2},
	}
	for _, p := range probes {
		if planar.PolygonContains(poly, p) {
			return true
		}
	}

	for _, v := range poly[0] {
		if b.Contains(spatial.Point{Lat: v.Y(), Lng: v.X()}) {
			return true
		}
	}
	return false
}
