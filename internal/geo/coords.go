package geo

// ValidLatitude reports whether v is a finite latitude in [-90, 90].
// The comparison is written so that NaN fails it.
func ValidLatitude(v float64) bool {
	return v >= -90 && v <= 90
}

// ValidLongitude reports whether v is a finite longitude in [-180, 180].
func ValidLongitude(v float64) bool {
	return v >= -180 && v <= 180
}
