package roof

// ExtractRoofOutline derives a single simplified roof outline from the
// segments' bounding boxes: every derivable box corner is collected and
// the convex hull of the set is returned. Deterministic for a given
// segment list and order. Empty input yields an empty outline.
func ExtractRoofOutline(segments []RoofSegment) []GeoPoint {
	if len(segments) == 0 {
		return []GeoPoint{}
	}

	var corners []GeoPoint
	for _, seg := range segments {
		if seg.BoundingBox == nil {
			continue
		}
		corners = append(corners, seg.BoundingBox.Corners()...)
	}
	if corners == nil {
		return []GeoPoint{}
	}

	return ConvexHull(corners)
}
