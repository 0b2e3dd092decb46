package anthropometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Skinfold(t *testing.T) {
	res := Evaluate(Input{
		WeightKg:  f(70),
		HeightCm:  f(175),
		Protocol:  ProtocolSkinfold7,
		Skinfolds: uniformFolds(10),
		Sex:       SexMale,
		BirthYear: year(2000),
		Now:       assessedAt,
		Policy:    RequireAll,
	})

	require.NotNil(t, res.BMI)
	assert.InDelta(t, 22.9, *res.BMI, 1e-9)
	assert.Equal(t, BMINormal, res.BMIClass)
	require.NotNil(t, res.BodyFatPercentage)
	assert.InDelta(t, 9.6, *res.BodyFatPercentage, 1e-9)
	assert.NoError(t, res.BodyFatErr)
}

func TestEvaluate_BioimpedanceIgnoresSkinfolds(t *testing.T) {
	res := Evaluate(Input{
		WeightKg:  f(80),
		HeightCm:  f(180),
		Protocol:  ProtocolBioimpedance,
		Skinfolds: uniformFolds(30),
		Bioimpedance: Bioimpedance{
			BodyFatPercentage: f(21.3),
			FatMass:           f(17.0),
			LeanMass:          f(63.0),
		},
		Sex:       SexMale,
		BirthYear: year(1985),
		Now:       assessedAt,
		Policy:    RequireAll,
	})

	require.NotNil(t, res.BodyFatPercentage)
	assert.Equal(t, 21.3, *res.BodyFatPercentage)
	assert.Equal(t, 17.0, *res.FatMass)
	assert.Equal(t, 63.0, *res.LeanMass)
	assert.NoError(t, res.BodyFatErr)
}

func TestEvaluate_BioimpedanceWithoutDeviceValue(t *testing.T) {
	res := Evaluate(Input{
		WeightKg:  f(80),
		HeightCm:  f(180),
		Protocol:  ProtocolBioimpedance,
		Skinfolds: uniformFolds(30),
		Sex:       SexMale,
		BirthYear: year(1985),
		Now:       assessedAt,
	})
	assert.Nil(t, res.BodyFatPercentage, "skinfolds must not be used as a fallback")
}

func TestEvaluate_MissingInputsAreUnavailable(t *testing.T) {
	res := Evaluate(Input{Protocol: ProtocolSkinfold7, Skinfolds: uniformFolds(10), Now: assessedAt})
	assert.Nil(t, res.BMI)
	assert.Empty(t, res.BMIClass)
	assert.Nil(t, res.BodyFatPercentage)
	assert.ErrorIs(t, res.BodyFatErr, ErrUnknownSex)

	res = Evaluate(Input{WeightKg: f(70), HeightCm: f(175), Now: assessedAt})
	assert.NotNil(t, res.BMI)
	assert.ErrorIs(t, res.BodyFatErr, ErrProtocolNotSkinfold)
}
