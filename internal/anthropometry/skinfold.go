package anthropometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrUnknownSex             = errors.New("biological sex is unknown")
	ErrMissingBirthdate       = errors.New("birthdate is missing")
	ErrInvalidBirthdate       = errors.New("birth year is after the assessment year")
	ErrIncompleteProtocolData = errors.New("skinfold protocol requires all seven sites")
	ErrInvalidMeasurement     = errors.New("skinfold thickness cannot be negative")
	ErrProtocolNotSkinfold    = errors.New("body fat is only computed for the 7-site skinfold protocol")
)

// Sex selects the regression coefficients.
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = ""
)

// ParseSex accepts the spellings stored by older clients.
func ParseSex(s string) Sex {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "masculino":
		return SexMale
	case "female", "f", "feminino":
		return SexFemale
	default:
		return SexUnknown
	}
}

// MissingSitePolicy decides what happens when a skinfold site was not measured.
type MissingSitePolicy string

const (
	// RequireAll refuses to estimate unless all seven sites are present.
	RequireAll MissingSitePolicy = "require_all"
	// ZeroFill counts absent sites as 0 mm. This biases the estimate
	// downward and is kept only for parity with records created that way.
	ZeroFill MissingSitePolicy = "zero_fill"
)

// ParseMissingSitePolicy falls back to RequireAll for unknown values.
func ParseMissingSitePolicy(s string) MissingSitePolicy {
	if MissingSitePolicy(strings.ToLower(strings.TrimSpace(s))) == ZeroFill {
		return ZeroFill
	}
	return RequireAll
}

// Skinfolds holds the seven Jackson–Pollock sites in millimetres.
type Skinfolds struct {
	Pectoral    *float64 `bson:"pectoral,omitempty" json:"pectoral,omitempty"`
	MidAxillary *float64 `bson:"midAxillary,omitempty" json:"midAxillary,omitempty"`
	Triceps     *float64 `bson:"triceps,omitempty" json:"triceps,omitempty"`
	Subscapular *float64 `bson:"subscapular,omitempty" json:"subscapular,omitempty"`
	Abdominal   *float64 `bson:"abdominal,omitempty" json:"abdominal,omitempty"`
	SupraIliac  *float64 `bson:"supraIliac,omitempty" json:"supraIliac,omitempty"`
	Thigh       *float64 `bson:"thigh,omitempty" json:"thigh,omitempty"`
}

func (s Skinfolds) sites() []*float64 {
	return []*float64{s.Pectoral, s.MidAxillary, s.Triceps, s.Subscapular, s.Abdominal, s.SupraIliac, s.Thigh}
}

// Present reports how many of the seven sites carry a value.
func (s Skinfolds) Present() int {
	n := 0
	for _, v := range s.sites() {
		if v != nil {
			n++
		}
	}
	return n
}

// Sum adds the seven sites under the given policy.
func (s Skinfolds) Sum(policy MissingSitePolicy) (float64, error) {
	var sum float64
	for _, v := range s.sites() {
		if v == nil {
			if policy == ZeroFill {
				continue
			}
			return 0, ErrIncompleteProtocolData
		}
		if *v < 0 || math.IsNaN(*v) {
			return 0, ErrInvalidMeasurement
		}
		sum += *v
	}
	return sum, nil
}

type densityCoefficients struct {
	intercept, linear, quadratic, age float64
}

var coefficients = map[Sex]densityCoefficients{
	SexMale:   {intercept: 1.112, linear: 0.00043499, quadratic: 0.00000055, age: 0.00028826},
	SexFemale: {intercept: 1.097, linear: 0.00046971, quadratic: 0.00000056, age: 0.00012828},
}

// AgeInYears is the difference of calendar years, without month/day adjustment.
func AgeInYears(birthYear *int, now time.Time) (int, error) {
	if birthYear == nil {
		return 0, ErrMissingBirthdate
	}
	age := now.Year() - *birthYear
	if age < 0 {
		return 0, ErrInvalidBirthdate
	}
	return age, nil
}

// BodyDensity is the Jackson–Pollock 7-site regression for a skinfold sum (mm).
func BodyDensity(sum float64, sex Sex, age int) (float64, error) {
	c, ok := coefficients[sex]
	if !ok {
		return 0, ErrUnknownSex
	}
	return c.intercept - c.linear*sum + c.quadratic*sum*sum - c.age*float64(age), nil
}

// BodyFatSkinfold7 estimates body-fat percentage with the Siri equation
// (495 / density − 450), floored at 0 and rounded to one decimal place.
func BodyFatSkinfold7(folds Skinfolds, sex Sex, birthYear *int, now time.Time, policy MissingSitePolicy) (float64, error) {
	if _, ok := coefficients[sex]; !ok {
		return 0, ErrUnknownSex
	}
	age, err := AgeInYears(birthYear, now)
	if err != nil {
		return 0, err
	}
	sum, err := folds.Sum(policy)
	if err != nil {
		return 0, err
	}
	density, err := BodyDensity(sum, sex, age)
	if err != nil {
		return 0, err
	}
	if density <= 0 {
		return 0, fmt.Errorf("non-physical body density %.5f for skinfold sum %.1f", density, sum)
	}
	return round1(math.Max(0, 495/density-450)), nil
}
