package roof

// GeoPoint is a latitude/longitude pair. For hull and outline purposes
// coordinates are treated as planar; building-footprint distances are
// small enough that no projection correction is needed.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within the WGS84 coordinate ranges.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// BoundingBox is the axis-aligned box around one roof segment, as
// reported by the imagery provider. Either corner may be absent.
type BoundingBox struct {
	SW *GeoPoint `json:"sw,omitempty"`
	NE *GeoPoint `json:"ne,omitempty"`
}

// Corners returns the corner points derivable from the box: each of the
// four corners is emitted only when the provider corner(s) it references
// are present, so a box missing one corner contributes fewer points.
func (b BoundingBox) Corners() []GeoPoint {
	var corners []GeoPoint
	if b.SW != nil {
		corners = append(corners, *b.SW)
	}
	if b.SW != nil && b.NE != nil {
		corners = append(corners, GeoPoint{Lat: b.SW.Lat, Lng: b.NE.Lng})
	}
	if b.NE != nil {
		corners = append(corners, *b.NE)
	}
	if b.SW != nil && b.NE != nil {
		corners = append(corners, GeoPoint{Lat: b.NE.Lat, Lng: b.SW.Lng})
	}
	return corners
}
