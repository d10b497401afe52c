package cache

import (
	"strconv"

	"github.com/municipal-boundary-service/internal/domain"
)

// precision is the number of decimal places coordinates are rounded to
// before use as a cache key. Four decimals is roughly 11 m at the equator;
// municipal boundaries have no features finer than that, so near-identical
// GPS fixes collapse onto one entry.
const precision = 4

// QuantizeKey maps a point to its cache key. Get and Put must both go
// through here so round-trips are consistent.
func QuantizeKey(p domain.Point) string {
	return quantize(p.Lat) + ":" + quantize(p.Lon)
}

func quantize(v float64) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	// Values rounding to zero from below must share a key with +0.
	if s == "-0.0000" {
		return "0.0000"
	}
	return s
}
