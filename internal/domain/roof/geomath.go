package roof

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle distances.
const earthRadiusMeters = 6371000

// compassRose maps round(azimuth/45) to the nearest 8-point compass
// direction. The 9th entry aliases back to "N" so an azimuth of exactly
// 360 resolves without a separate wrap-around branch.
var compassRose = [9]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW", "N"}

// HaversineDistanceMeters returns the great-circle distance between two
// points. Inputs are not range-checked; callers supply valid GeoPoints.
// Always non-negative, 0 when the points are equal.
func HaversineDistanceMeters(a, b GeoPoint) float64 {
	if a.Lat == b.Lat && a.Lng == b.Lng {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// DirectionFromAzimuth maps an azimuth in degrees to the nearest 8-point
// compass direction. Azimuths outside [0, 360) are normalized first, so
// -90 resolves to "W" and 450 to "E".
func DirectionFromAzimuth(azimuthDegrees float64) string {
	az := math.Mod(azimuthDegrees, 360)
	if az < 0 {
		az += 360
	}
	return compassRose[int(math.Round(az/45))]
}
