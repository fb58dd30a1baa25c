package roof

// RoofSegment is one planar facet of a roof as reported by the aerial
// imagery provider. Values are never mutated after construction; the
// engine derives everything else from them.
type RoofSegment struct {
	// AreaSqMeters is the segment's ground area. Nil when the provider
	// omitted it; the classifier then reports 0 sq ft for the segment.
	AreaSqMeters *float64 `json:"area_sq_meters,omitempty"`

	// PitchDegrees is the slope of the facet, 0 for flat.
	PitchDegrees float64 `json:"pitch_degrees"`

	// AzimuthDegrees is the compass bearing the facet faces,
	// 0/360 = north, clockwise.
	AzimuthDegrees float64 `json:"azimuth_degrees"`

	// BoundingBox is the axis-aligned box around the facet, when known.
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// Area returns the segment's ground area in square meters, 0 when absent.
func (s RoofSegment) Area() float64 {
	if s.AreaSqMeters == nil {
		return 0
	}
	return *s.AreaSqMeters
}
