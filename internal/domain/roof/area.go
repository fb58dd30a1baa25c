package roof

import "math"

// SquareFeetPerSquareMeter is the m² → ft² conversion factor used for
// every area figure the engine reports. Downstream billing depends on
// this value byte-for-byte.
const SquareFeetPerSquareMeter = 10.7639

// SquareFeetPerRoofingSquare converts roof area to roofing "squares",
// the unit replacement cost is quoted in.
const SquareFeetPerRoofingSquare = 100.0

// TotalRoofAreaSqFt converts the provider's ground-area figures into a
// total roof area in square feet.
//
// A whole-roof ground area supplied directly by the provider is
// preferred. Otherwise per-segment contributions are summed, including
// only segments with a positive pitch and a positive area: zero-pitch or
// zero-area facets are treated as non-roof and silently excluded. With
// no usable data at all the result is 0, never an error.
func TotalRoofAreaSqFt(segments []RoofSegment, wholeRoofGroundAreaSqMeters *float64) float64 {
	if wholeRoofGroundAreaSqMeters != nil {
		return *wholeRoofGroundAreaSqMeters * SquareFeetPerSquareMeter
	}

	total := 0.0
	for _, seg := range segments {
		if seg.PitchDegrees > 0 && seg.Area() > 0 {
			total += seg.Area() * SquareFeetPerSquareMeter
		}
	}
	return total
}

// EstimateCost turns a roof area and a price-per-square rate into a
// whole-dollar replacement estimate, rounding half away from zero.
// Negative inputs propagate arithmetically; validating them is the
// caller's responsibility.
func EstimateCost(roofAreaSqFt, pricePerSquare float64) int64 {
	squares := roofAreaSqFt / SquareFeetPerRoofingSquare
	return int64(math.Round(squares * pricePerSquare))
}
