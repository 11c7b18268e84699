package claim

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/spatial"
	"github.com/tilerun/territory-backend-go/internal/tile"
)

const degreesPerMeterLat = 1.0 / 111194.93

func pathTrace(segments int, stepMeters float64) models.Trace {
	samples := make([]models.GPSSample, 0, segments+1)
	for i := 0; i <= segments; i++ {
		samples = append(samples, models.GPSSample{
			Lat:         39.9,
			Lng:         116.4 + float64(i)*stepMeters*degreesPerMeterLat, // close enough eastward at 39.9N
			TimestampMs: int64(i) * 60_000,
		})
	}
	return models.Trace{Activity: models.ActivityRun, Samples: samples}
}

func TestBuildShapeCorridorCoversPath(t *testing.T) {
	trace := pathTrace(4, 100)

	shape := BuildShape(trace)

	require.NotNil(t, shape.Corridor)
	require.NotEmpty(t, shape.TouchedTiles)

	for _, poly := range shape.Corridor {
		ring := poly[0]
		assert.Equal(t, ring[0], ring[len(ring)-1], "corridor rings must be closed")
	}

	for _, s := range trace.Samples {
		assert.True(t, planar.MultiPolygonContains(shape.Corridor, orb.Point{s.Lng, s.Lat}),
			"path sample (%f, %f) must lie inside the corridor", s.Lat, s.Lng)
	}
}

func TestBuildShapeTouchesPathTiles(t *testing.T) {
	trace := pathTrace(4, 100)

	shape := BuildShape(trace)

	for _, s := range trace.Samples {
		assert.Contains(t, shape.TouchedTiles, tile.IDFor(s.Lat, s.Lng))
	}
}

func TestBuildShapeDeterminism(t *testing.T) {
	trace := pathTrace(3, 120)

	first := BuildShape(trace)
	second := BuildShape(trace)

	assert.Equal(t, first.TouchedTiles, second.TouchedTiles)
	assert.Equal(t, first.Corridor, second.Corridor)
}

func TestBuildShapeOutAndBackMatchesOneWay(t *testing.T) {
	// An out-and-back run covers exactly the ground of its one-way leg; the
	// overlap of outbound and return corridors must not cancel any coverage
	for _, step := range []float64{200, 300} {
		oneWay := pathTrace(5, step)

		outAndBack := models.Trace{Activity: models.ActivityRun}
		outAndBack.Samples = append(outAndBack.Samples, oneWay.Samples...)
		for i := len(oneWay.Samples) - 2; i >= 0; i-- {
			s := oneWay.Samples[i]
			s.TimestampMs = outAndBack.Samples[len(outAndBack.Samples)-1].TimestampMs + 60_000
			outAndBack.Samples = append(outAndBack.Samples, s)
		}

		oneWayShape := BuildShape(oneWay)
		outAndBackShape := BuildShape(outAndBack)

		assert.ElementsMatch(t, oneWayShape.TouchedTiles, outAndBackShape.TouchedTiles,
			"step %.0f m: out-and-back must claim the same tiles as one-way", step)
	}
}

func TestBuildShapeRetracedPathCoversSamples(t *testing.T) {
	// Every sample of a retraced path still tests as inside the corridor
	trace := pathTrace(5, 200)
	for i := len(trace.Samples) - 2; i >= 0; i-- {
		s := trace.Samples[i]
		trace.Samples = append(trace.Samples, models.GPSSample{
			Lat: s.Lat, Lng: s.Lng,
			TimestampMs: trace.Samples[len(trace.Samples)-1].TimestampMs + 60_000,
		})
	}

	shape := BuildShape(trace)
	require.NotNil(t, shape.Corridor)

	for _, s := range trace.Samples {
		assert.True(t, planar.MultiPolygonContains(shape.Corridor, orb.Point{s.Lng, s.Lat}),
			"sample (%f, %f) must lie inside the corridor", s.Lat, s.Lng)
	}
}

func TestBuildShapeSharpTurnCoverage(t *testing.T) {
	// East then north: the outer corner of the turn lies to the southeast of
	// the turn vertex and is covered only by the vertex's cap disk
	turnLat, turnLng := spatial.DestinationPoint(39.9, 116.4, 90, 300)
	endLat, endLng := spatial.DestinationPoint(turnLat, turnLng, 0, 300)
	trace := models.Trace{
		Activity: models.ActivityRun,
		Samples: []models.GPSSample{
			{Lat: 39.9, Lng: 116.4, TimestampMs: 0},
			{Lat: turnLat, Lng: turnLng, TimestampMs: 120_000},
			{Lat: endLat, Lng: endLng, TimestampMs: 240_000},
		},
	}

	shape := BuildShape(trace)
	require.NotNil(t, shape.Corridor)

	for _, bearing := range []float64{45, 135, 225, 315} {
		lat, lng := spatial.DestinationPoint(turnLat, turnLng, bearing, 35)
		assert.True(t, planar.MultiPolygonContains(shape.Corridor, orb.Point{lng, lat}),
			"point 35 m at bearing %.0f from the turn vertex must be covered", bearing)
	}

	lat, lng := spatial.DestinationPoint(turnLat, turnLng, 135, 80)
	assert.False(t, planar.MultiPolygonContains(shape.Corridor, orb.Point{lng, lat}),
		"the outer corner beyond the buffer radius stays unclaimed")
}

func TestBuildShapeDegeneratePath(t *testing.T) {
	// All samples coincident: buffering is impossible, fall back to tiling
	// the raw samples
	samples := []models.GPSSample{
		{Lat: 39.9, Lng: 116.4, TimestampMs: 0},
		{Lat: 39.9, Lng: 116.4, TimestampMs: 60_000},
		{Lat: 39.9, Lng: 116.4, TimestampMs: 120_000},
	}

	shape := BuildShape(models.Trace{Activity: models.ActivityRun, Samples: samples})

	assert.Nil(t, shape.Corridor)
	assert.Equal(t, []string{tile.IDFor(39.9, 116.4)}, shape.TouchedTiles)
}

func TestBuildShapeBufferWidth(t *testing.T) {
	trace := pathTrace(2, 150)
	shape := BuildShape(trace)
	require.NotNil(t, shape.Corridor)

	mid := trace.Samples[1]

	// A point ~30 m north of the path is inside the 50 m corridor
	inside := orb.Point{mid.Lng, mid.Lat + 30*degreesPerMeterLat}
	assert.True(t, planar.MultiPolygonContains(shape.Corridor, inside))

	// A point ~80 m north of the path is outside it
	outside := orb.Point{mid.Lng, mid.Lat + 80*degreesPerMeterLat}
	assert.False(t, planar.MultiPolygonContains(shape.Corridor, outside))
}
