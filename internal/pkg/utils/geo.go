package utils

// ValidateCoordinates checks the WGS84 range. Out-of-range values are
// rejected before any geometry code runs.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
