package roof

import (
	"fmt"
	"math"

	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
)

// EstimateInput is the already-fetched provider dataset the engine
// consumes. The engine performs no I/O of its own.
type EstimateInput struct {
	Segments                    []RoofSegment `json:"segments"`
	WholeRoofGroundAreaSqMeters *float64      `json:"whole_roof_ground_area_sq_meters,omitempty"`
	PricePerSquare              float64       `json:"price_per_square"`
}

// RoofEstimate is the aggregate engine output: the replacement-cost
// figures, the simplified outline for map rendering, and the pitch
// breakdown. Everything is derived, immutable, and returned by value
// semantics; nothing here is persisted by the engine itself.
type RoofEstimate struct {
	TotalAreaSqFt    float64        `json:"total_area_sq_ft"`
	RoofSquares      float64        `json:"roof_squares"`
	PricePerSquare   float64        `json:"price_per_square"`
	EstimateDollars  int64          `json:"estimate_dollars"`
	PredominantPitch PitchCategory  `json:"predominant_pitch"`
	Outline          []GeoPoint     `json:"outline"`
	Segments         []PitchSegment `json:"pitch_segments"`
}

// validateInput fails fast on type/shape violations: non-finite
// numerics and out-of-range coordinates produce an invalid-input error
// instead of silently propagating NaN into the geometry. Merely empty
// or zero-valued data is fine and yields zero-valued results.
func validateInput(in EstimateInput) error {
	if !isFinite(in.PricePerSquare) {
		return domain.NewInvalidInputError("price per square must be a finite number")
	}
	if in.WholeRoofGroundAreaSqMeters != nil && !isFinite(*in.WholeRoofGroundAreaSqMeters) {
		return domain.NewInvalidInputError("whole-roof ground area must be a finite number")
	}
	for i, seg := range in.Segments {
		if !isFinite(seg.PitchDegrees) || !isFinite(seg.AzimuthDegrees) {
			return domain.NewInvalidInputError(fmt.Sprintf("segment %d has non-finite pitch or azimuth", i))
		}
		if seg.AreaSqMeters != nil && !isFinite(*seg.AreaSqMeters) {
			return domain.NewInvalidInputError(fmt.Sprintf("segment %d has non-finite area", i))
		}
		if seg.BoundingBox != nil {
			for _, corner := range []*GeoPoint{seg.BoundingBox.SW, seg.BoundingBox.NE} {
				if corner == nil {
					continue
				}
				if !isFinite(corner.Lat) || !isFinite(corner.Lng) || !corner.Valid() {
					return domain.NewInvalidInputError(fmt.Sprintf("segment %d has an out-of-range bounding box corner", i))
				}
			}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BuildEstimate runs the full engine over one provider dataset: total
// area and cost, roof outline, and pitch classification. The three
// passes are independent transforms over the same input. Referentially
// transparent; callers may cache results keyed on input content.
func BuildEstimate(in EstimateInput) (*RoofEstimate, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	totalAreaSqFt := TotalRoofAreaSqFt(in.Segments, in.WholeRoofGroundAreaSqMeters)
	squares := totalAreaSqFt / SquareFeetPerRoofingSquare
	breakdown := ClassifyPitch(in.Segments)

	return &RoofEstimate{
		TotalAreaSqFt:    totalAreaSqFt,
		RoofSquares:      squares,
		PricePerSquare:   in.PricePerSquare,
		EstimateDollars:  EstimateCost(totalAreaSqFt, in.PricePerSquare),
		PredominantPitch: breakdown.Predominant,
		Outline:          ExtractRoofOutline(in.Segments),
		Segments:         breakdown.Segments,
	}, nil
}
