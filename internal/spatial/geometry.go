package spatial

import "errors"

// ErrEmptyInput reports a precondition failure: a geometry operation was
// invoked with an empty point set. This indicates a caller bug, not bad data.
var ErrEmptyInput = errors.New("spatial: empty point set")

// Point represents a 2D point with latitude and longitude in degrees
type Point struct {
	Lat float64
	Lng float64
}

// Bounds is a latitude/longitude aligned bounding box
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// Contains reports whether the point lies within the bounds (inclusive)
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Expand grows the bounds by the given margin in degrees on every side
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - margin,
		MinLng: b.MinLng - margin,
		MaxLat: b.MaxLat + margin,
		MaxLng: b.MaxLng + margin,
	}
}

// BoundingBox calculates the bounding box of a non-empty set of points
func BoundingBox(points []Point) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrEmptyInput
	}

	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}
	return b, nil
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += Distance(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
	}
	return totalDist
}
