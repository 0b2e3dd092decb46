// Package anthropometry derives body-composition indices from measurements
// entered during a physical assessment. Everything here is pure: no I/O, no
// clock reads (callers pass the reference time), safe for concurrent use.
package anthropometry

import "math"

// BMIClass is the display band for a BMI value. It is never persisted.
type BMIClass string

const (
	BMIUnderweight BMIClass = "underweight"
	BMINormal      BMIClass = "normal"
	BMIOverweight  BMIClass = "overweight"
	BMIObese       BMIClass = "obese"
)

// Band thresholds. Each band is closed on its lower bound.
const (
	normalFloor     = 18.5
	overweightFloor = 25.0
	obeseFloor      = 30.0
)

// BMI returns weight / (height in metres)^2 rounded to one decimal place.
// ok is false when either measurement is absent or non-positive; callers must
// show "not available" rather than a computed-looking zero.
func BMI(weightKg, heightCm *float64) (bmi float64, ok bool) {
	if weightKg == nil || heightCm == nil {
		return 0, false
	}
	w, h := *weightKg, *heightCm
	if !positive(w) || !positive(h) {
		return 0, false
	}
	metres := h / 100
	return round1(w / (metres * metres)), true
}

// ClassifyBMI maps a (rounded) BMI to its band. A value sitting exactly on a
// threshold belongs to the upper band: 18.5 is normal, 25 overweight, 30 obese.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < normalFloor:
		return BMIUnderweight
	case bmi < overweightFloor:
		return BMINormal
	case bmi < obeseFloor:
		return BMIOverweight
	default:
		return BMIObese
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
