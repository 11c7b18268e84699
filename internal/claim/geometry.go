// Package claim turns a validated trace into territory: it buffers the GPS
// path into a claim corridor, resolves the tiles the corridor touches, and
// applies those tiles against the current ownership snapshot.
package claim

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/spatial"
	"github.com/tilerun/territory-backend-go/internal/tile"
)

const (
	// BufferMeters is the half-width of the claim corridor around the path
	BufferMeters = 50.0

	// arcSegmentsPerQuarter controls how finely end caps are rounded.
	// Coarser under-claims at path ends and turns, finer buys little.
	arcSegmentsPerQuarter = 8
)

// Shape is the geometric form of a claim: the buffered corridor around the
// path and the tiles it touches, in discovery order. The corridor is one
// stadium-shaped polygon per path segment; a point is covered when any of
// them contains it, so self-retracing paths keep union semantics instead of
// cancelling where outbound and return legs overlap. Corridor is nil when
// the path was degenerate and the tiles were derived from the raw samples.
type Shape struct {
	TouchedTiles []string
	Corridor     orb.MultiPolygon
}

// BuildShape computes the claim shape for a trace that passed validation.
// A degenerate path (all samples coincident) cannot be buffered; it falls
// back to tiling each raw sample coordinate directly.
func BuildShape(trace models.Trace) Shape {
	path := distinctPath(trace.Samples)
	if len(path) < 2 {
		return Shape{TouchedTiles: tilesForSamples(trace.Samples)}
	}

	corridor := make(orb.MultiPolygon, 0, len(path)-1)

	var touched []string
	seen := make(map[string]bool)
	add := func(ids ...string) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			touched = append(touched, id)
		}
	}

	for i := 0; i < len(path)-1; i++ {
		seg := segmentCorridor(path[i], path[i+1], BufferMeters)
		corridor = append(corridor, seg)

		// The segment endpoints' own tiles are always claimed, even when
		// the grid scan's probe points miss a corridor sliver
		add(tile.IDFor(path[i].Lat, path[i].Lng), tile.IDFor(path[i+1].Lat, path[i+1].Lng))
		add(tile.Intersecting(seg)...)
	}

	return Shape{TouchedTiles: touched, Corridor: corridor}
}

// distinctPath extracts the path points, dropping consecutive duplicates
func distinctPath(samples []models.GPSSample) []spatial.Point {
	var path []spatial.Point
	for _, s := range samples {
		p := spatial.Point{Lat: s.Lat, Lng: s.Lng}
		if len(path) > 0 && path[len(path)-1] == p {
			continue
		}
		path = append(path, p)
	}
	return path
}

// tilesForSamples maps raw samples straight to tiles, keeping sample order
func tilesForSamples(samples []models.GPSSample) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, s := range samples {
		id := tile.IDFor(s.Lat, s.Lng)
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// segmentCorridor buffers one path segment into a stadium: offset walls on
// both sides plus a full half-circle cap at each endpoint. The caps give
// every path vertex a complete buffer disk, so consecutive segments cover
// their shared joint regardless of the turn angle.
func segmentCorridor(a, b spatial.Point, meters float64) orb.Polygon {
	bearing := spatial.Bearing(a.Lat, a.Lng, b.Lat, b.Lng)

	var ring orb.Ring
	ring = append(ring,
		offsetPoint(a, bearing-90, meters),
		offsetPoint(b, bearing-90, meters),
	)
	ring = append(ring, arcPoints(b, bearing-90, bearing+90, meters)...)
	ring = append(ring,
		offsetPoint(b, bearing+90, meters),
		offsetPoint(a, bearing+90, meters),
	)
	ring = append(ring, arcPoints(a, bearing+90, bearing+270, meters)...)
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// offsetPoint returns the point at the given bearing and distance, in
// orb's [lng, lat] order
func offsetPoint(p spatial.Point, bearing, meters float64) orb.Point {
	lat, lng := spatial.DestinationPoint(p.Lat, p.Lng, normalizeBearing(bearing), meters)
	return orb.Point{lng, lat}
}

// arcPoints samples the interior of an arc around a center point, endpoints
// excluded (the adjacent walls already provide them)
func arcPoints(center spatial.Point, fromBearing, toBearing, meters float64) []orb.Point {
	quarters := (toBearing - fromBearing) / 90.0
	steps := int(math.Round(math.Abs(quarters))) * arcSegmentsPerQuarter
	if steps < 2 {
		steps = 2
	}

	pts := make([]orb.Point, 0, steps-1)
	for k := 1; k < steps; k++ {
		b := fromBearing + (toBearing-fromBearing)*float64(k)/float64(steps)
		pts = append(pts, offsetPoint(center, b, meters))
	}
	return pts
}

func normalizeBearing(b float64) float64 {
	return math.Mod(math.Mod(b, 360)+360, 360)
}
