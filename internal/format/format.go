package format

import (
	"math"
	"strconv"
)

// Number is any numeric value the formatter accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Scale divides n by 1000 until its absolute value drops below 1000 and
// returns the scaled value together with the number of divisions applied.
// Infinities and NaN are returned as-is with a magnitude of 0.
func Scale[N Number](n N) (float64, int) {
	v := float64(n)
	magnitude := 0
	for math.Abs(v) >= 1000 && !math.IsInf(v, 0) {
		magnitude++
		v /= 1000
	}
	return v, magnitude
}

// Human renders n scaled by thousands with two decimals, e.g. 1234567 -> "1.23".
// The magnitude is dropped: no unit suffix is appended.
func Human[N Number](n N) string {
	v, _ := Scale(n)
	return strconv.FormatFloat(v, 'f', 2, 64)
}
