package roof

import (
	"math"
	"strconv"
)

// PitchCategory is the categorical slope class of a roof facet.
type PitchCategory string

const (
	PitchFlat      PitchCategory = "FLAT"
	PitchLow       PitchCategory = "LOW"
	PitchNormal    PitchCategory = "NORMAL"
	PitchSteep     PitchCategory = "STEEP"
	PitchVerySteep PitchCategory = "VERY_STEEP"
	PitchUnknown   PitchCategory = "UNKNOWN"
)

// PitchBand is one row of the fixed classification table: a category
// with its degree range and display labels.
type PitchBand struct {
	Category    PitchCategory
	MinDegrees  float64
	MaxDegrees  float64
	RatioLabel  string
	Description string
}

// degreesForRise converts a rise-over-12 ratio to the pitch angle in degrees.
func degreesForRise(rise float64) float64 {
	return math.Atan(rise/12) * 180 / math.Pi
}

// pitchBands is the fixed slope classification table, ascending. A
// pitch on an interior band boundary classifies into the steeper band
// (exactly 4:12 is NORMAL, not LOW). A pitch of exactly 0 degrees
// matches no band and classifies UNKNOWN; consumers depend on that
// boundary behavior.
var pitchBands = [5]PitchBand{
	{PitchFlat, 0, degreesForRise(2), "0:12-2:12", "Flat to very low slope"},
	{PitchLow, degreesForRise(2), degreesForRise(4), ">2:12-4:12", "Low slope"},
	{PitchNormal, degreesForRise(4), degreesForRise(6), ">4:12-6:12", "Conventional slope"},
	{PitchSteep, degreesForRise(6), degreesForRise(9), ">6:12-9:12", "Steep slope"},
	{PitchVerySteep, degreesForRise(9), 90, ">9:12", "Very steep slope"},
}

// PitchBands returns a copy of the classification table.
func PitchBands() []PitchBand {
	bands := make([]PitchBand, len(pitchBands))
	copy(bands, pitchBands[:])
	return bands
}

// categoryForPitch finds the first band in ascending table order whose
// upper bound exceeds the pitch. Pitches of 0 or below, or beyond
// vertical, classify UNKNOWN; exactly 90 is VERY_STEEP.
func categoryForPitch(pitchDegrees float64) PitchCategory {
	if pitchDegrees <= 0 || pitchDegrees > 90 {
		return PitchUnknown
	}
	for _, band := range pitchBands {
		if pitchDegrees < band.MaxDegrees {
			return band.Category
		}
	}
	return PitchVerySteep
}

// PitchSegment is the classifier's per-segment output row.
type PitchSegment struct {
	PitchDegrees float64       `json:"pitch_degrees"`
	Rise         string        `json:"rise"`
	Category     PitchCategory `json:"category"`
	AreaSqFt     int64         `json:"area_sq_ft"`
	Direction    string        `json:"direction"`
}

// PitchBreakdown aggregates the per-segment classifications and the
// dominant category by summed area.
type PitchBreakdown struct {
	Segments    []PitchSegment `json:"segments"`
	Predominant PitchCategory  `json:"predominant"`
}

// riseLabel formats the rise-over-12 ratio for a pitch angle, rounded to
// one decimal place with trailing zeros dropped ("5.8:12", "6:12").
func riseLabel(pitchDegrees float64) string {
	rise := math.Tan(pitchDegrees*math.Pi/180) * 12
	rounded := math.Round(rise*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + ":12"
}

// ClassifyPitch classifies every segment against the fixed band table
// and determines the predominant category by summed area in square feet.
//
// Ties resolve to the earliest category in table order (UNKNOWN last),
// and only categories that actually appear among the segments are
// candidates. An empty segment list yields UNKNOWN and no rows.
func ClassifyPitch(segments []RoofSegment) PitchBreakdown {
	if len(segments) == 0 {
		return PitchBreakdown{Segments: []PitchSegment{}, Predominant: PitchUnknown}
	}

	rows := make([]PitchSegment, 0, len(segments))
	totals := make(map[PitchCategory]int64, len(pitchBands)+1)
	present := make(map[PitchCategory]bool, len(pitchBands)+1)
	for _, seg := range segments {
		category := categoryForPitch(seg.PitchDegrees)
		areaSqFt := int64(math.Round(seg.Area() * SquareFeetPerSquareMeter))
		rows = append(rows, PitchSegment{
			PitchDegrees: seg.PitchDegrees,
			Rise:         riseLabel(seg.PitchDegrees),
			Category:     category,
			AreaSqFt:     areaSqFt,
			Direction:    DirectionFromAzimuth(seg.AzimuthDegrees),
		})
		totals[category] += areaSqFt
		present[category] = true
	}

	predominant := PitchUnknown
	bestArea := int64(-1)
	for _, band := range pitchBands {
		if present[band.Category] && totals[band.Category] > bestArea {
			predominant = band.Category
			bestArea = totals[band.Category]
		}
	}
	if present[PitchUnknown] && totals[PitchUnknown] > bestArea {
		predominant = PitchUnknown
	}

	return PitchBreakdown{Segments: rows, Predominant: predominant}
}
