package solar

// LatLng is a coordinate pair as the building-insights API encodes it.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LatLngBox is the provider's axis-aligned bounding box. Corners may be
// absent for partially observed segments.
type LatLngBox struct {
	SW *LatLng `json:"sw,omitempty"`
	NE *LatLng `json:"ne,omitempty"`
}

// SizeAndSunshineStats carries the area figures the provider reports
// for a roof or roof segment. All fields are optional in practice.
type SizeAndSunshineStats struct {
	AreaMeters2       *float64 `json:"areaMeters2,omitempty"`
	GroundAreaMeters2 *float64 `json:"groundAreaMeters2,omitempty"`
}

// RoofSegmentStat is one planar roof facet from the imagery analysis.
type RoofSegmentStat struct {
	PitchDegrees   float64              `json:"pitchDegrees"`
	AzimuthDegrees float64              `json:"azimuthDegrees"`
	Stats          SizeAndSunshineStats `json:"stats"`
	BoundingBox    *LatLngBox           `json:"boundingBox,omitempty"`
}

// SolarPotential is the roof-analysis portion of a building-insights
// response; the irradiance fields this service does not use are ignored
// at decode time.
type SolarPotential struct {
	RoofSegmentStats []RoofSegmentStat     `json:"roofSegmentStats"`
	WholeRoofStats   *SizeAndSunshineStats `json:"wholeRoofStats,omitempty"`
}

// BuildingInsights is the provider response for the closest building to
// a queried coordinate.
type BuildingInsights struct {
	Name           string          `json:"name"`
	Center         LatLng          `json:"center"`
	ImageryQuality string          `json:"imageryQuality"`
	SolarPotential *SolarPotential `json:"solarPotential,omitempty"`
}
