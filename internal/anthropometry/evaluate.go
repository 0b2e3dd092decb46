package anthropometry

import (
	"strings"
	"time"
)

// Protocol is the body-composition method chosen for an assessment.
type Protocol string

const (
	ProtocolNone         Protocol = ""
	ProtocolSkinfold7    Protocol = "skinfold_7"
	ProtocolBioimpedance Protocol = "bioimpedance"
)

// ParseProtocol also understands the "pollock7" tag written by the first client.
func ParseProtocol(s string) Protocol {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skinfold_7", "skinfold7", "pollock7", "pollock_7":
		return ProtocolSkinfold7
	case "bioimpedance", "bio":
		return ProtocolBioimpedance
	default:
		return ProtocolNone
	}
}

// Bioimpedance values are read off an external device and stored as entered.
type Bioimpedance struct {
	BodyFatPercentage *float64 `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	FatMass           *float64 `bson:"fatMass,omitempty" json:"fatMass,omitempty"`
	LeanMass          *float64 `bson:"leanMass,omitempty" json:"leanMass,omitempty"`
}

// Input is everything the save-time derivation looks at.
type Input struct {
	WeightKg     *float64
	HeightCm     *float64
	Protocol     Protocol
	Skinfolds    Skinfolds
	Bioimpedance Bioimpedance
	Sex          Sex
	BirthYear    *int
	Now          time.Time
	Policy       MissingSitePolicy
}

// Result holds the derived, read-only assessment fields. Nil means "not available".
type Result struct {
	BMI               *float64
	BMIClass          BMIClass
	BodyFatPercentage *float64
	FatMass           *float64
	LeanMass          *float64
	// BodyFatErr explains a nil BodyFatPercentage.
	BodyFatErr error
}

// Evaluate derives BMI and body fat for an assessment about to be stored.
// Skinfold fields are ignored unless the protocol is ProtocolSkinfold7, and
// bioimpedance values pass through untouched for ProtocolBioimpedance.
func Evaluate(in Input) Result {
	var res Result
	if bmi, ok := BMI(in.WeightKg, in.HeightCm); ok {
		res.BMI = &bmi
		res.BMIClass = ClassifyBMI(bmi)
	}

	switch in.Protocol {
	case ProtocolSkinfold7:
		bf, err := BodyFatSkinfold7(in.Skinfolds, in.Sex, in.BirthYear, in.Now, in.Policy)
		if err != nil {
			res.BodyFatErr = err
			break
		}
		res.BodyFatPercentage = &bf
	case ProtocolBioimpedance:
		res.BodyFatPercentage = in.Bioimpedance.BodyFatPercentage
		res.FatMass = in.Bioimpedance.FatMass
		res.LeanMass = in.Bioimpedance.LeanMass
	default:
		res.BodyFatErr = ErrProtocolNotSkinfold
	}
	return res
}
