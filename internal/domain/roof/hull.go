package roof

import "sort"

// duplicateEpsilon collapses near-duplicate corners emitted by adjacent
// bounding boxes. Two points are identical when both coordinate deltas
// are below this threshold.
const duplicateEpsilon = 1e-7

// cross returns the cross product of vectors o->a and o->b. The lng/lat
// order is deliberately swapped relative to a conventional (x,y) cross
// product because inputs are (lat,lng) pairs; changing this convention
// flips the hull winding.
func cross(o, a, b GeoPoint) float64 {
	return (a.Lng-o.Lng)*(b.Lat-o.Lat) - (a.Lat-o.Lat)*(b.Lng-o.Lng)
}

// squaredDistance is the planar squared Euclidean distance between two
// points, used only for comparator tie-breaks among collinear points.
func squaredDistance(a, b GeoPoint) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

// dedupePoints collapses points that coincide within duplicateEpsilon on
// both axes, keeping the first occurrence. Input order is preserved.
func dedupePoints(points []GeoPoint) []GeoPoint {
	kept := make([]GeoPoint, 0, len(points))
	for _, p := range points {
		duplicate := false
		for _, k := range kept {
			if abs(p.Lat-k.Lat) < duplicateEpsilon && abs(p.Lng-k.Lng) < duplicateEpsilon {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, p)
		}
	}
	return kept
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ConvexHull computes the convex hull of a point set with a Graham scan.
//
// Inputs of three or fewer points are returned unchanged; after
// duplicate collapsing, sets of three or fewer points are returned as-is
// (a degenerate "hull" is not processed further). The sort comparator
// and the distance tie-break are a correctness requirement for
// consumers that fill the polygon, not an implementation detail:
// vertices come out in a consistent winding order and collinear points
// sort nearest-first from the pivot.
func ConvexHull(points []GeoPoint) []GeoPoint {
	if len(points) <= 3 {
		return points
	}

	deduped := dedupePoints(points)
	if len(deduped) <= 3 {
		return deduped
	}

	// Pivot on the lowest latitude, ties broken by lowest longitude.
	pivotIdx := 0
	for i, p := range deduped {
		if p.Lat < deduped[pivotIdx].Lat ||
			(p.Lat == deduped[pivotIdx].Lat && p.Lng < deduped[pivotIdx].Lng) {
			pivotIdx = i
		}
	}
	pivot := deduped[pivotIdx]

	rest := make([]GeoPoint, 0, len(deduped)-1)
	rest = append(rest, deduped[:pivotIdx]...)
	rest = append(rest, deduped[pivotIdx+1:]...)

	// Polar-angle sort around the pivot: a precedes b when
	// -cross(pivot, a, b) is negative, collinear ties resolved by
	// ascending squared distance from the pivot.
	sort.SliceStable(rest, func(i, j int) bool {
		c := cross(pivot, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		return squaredDistance(pivot, rest[i]) < squaredDistance(pivot, rest[j])
	})

	hull := make([]GeoPoint, 0, len(deduped))
	hull = append(hull, pivot)
	for _, candidate := range rest {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], candidate) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, candidate)
	}

	return hull
}
