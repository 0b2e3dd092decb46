package anthropometry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assessedAt = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func year(y int) *int { return &y }

func uniformFolds(mm float64) Skinfolds {
	return Skinfolds{
		Pectoral: f(mm), MidAxillary: f(mm), Triceps: f(mm), Subscapular: f(mm),
		Abdominal: f(mm), SupraIliac: f(mm), Thigh: f(mm),
	}
}

func TestBodyFatSkinfold7_KnownValues(t *testing.T) {
	folds := uniformFolds(10) // sum 70 mm

	male, err := BodyFatSkinfold7(folds, SexMale, year(2000), assessedAt, RequireAll)
	require.NoError(t, err)
	assert.InDelta(t, 9.6, male, 1e-9)

	female, err := BodyFatSkinfold7(folds, SexFemale, year(2000), assessedAt, RequireAll)
	require.NoError(t, err)
	assert.InDelta(t, 15.4, female, 1e-9)
}

func TestBodyFatSkinfold7_MonotonicInSkinfoldSum(t *testing.T) {
	for _, sex := range []Sex{SexMale, SexFemale} {
		for _, age := range []int{18, 35, 60} {
			prev := -1.0
			for sum := 20.0; sum <= 200.0; sum += 0.5 {
				folds := Skinfolds{
					Pectoral: f(sum), MidAxillary: f(0), Triceps: f(0), Subscapular: f(0),
					Abdominal: f(0), SupraIliac: f(0), Thigh: f(0),
				}
				got, err := BodyFatSkinfold7(folds, sex, year(assessedAt.Year()-age), assessedAt, RequireAll)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, prev, "sex=%s age=%d sum=%.1f", sex, age, sum)
				prev = got
			}
		}
	}
}

func TestBodyFatSkinfold7_FlooredAtZero(t *testing.T) {
	// S=0, age=0 gives a male density of 1.112, so 495/1.112-450 is negative.
	density, err := BodyDensity(0, SexMale, 0)
	require.NoError(t, err)
	require.Less(t, 495/density-450, 0.0)

	got, err := BodyFatSkinfold7(uniformFolds(0), SexMale, year(assessedAt.Year()), assessedAt, RequireAll)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestBodyFatSkinfold7_Unavailable(t *testing.T) {
	tests := []struct {
		name  string
		folds Skinfolds
		sex   Sex
		birth *int
		want  error
	}{
		{name: "unknown_sex", folds: uniformFolds(10), sex: SexUnknown, birth: year(1990), want: ErrUnknownSex},
		{name: "missing_birthdate", folds: uniformFolds(10), sex: SexMale, birth: nil, want: ErrMissingBirthdate},
		{name: "birth_year_in_future", folds: uniformFolds(10), sex: SexFemale, birth: year(2030), want: ErrInvalidBirthdate},
		{name: "negative_site", folds: Skinfolds{
			Pectoral: f(-1), MidAxillary: f(1), Triceps: f(1), Subscapular: f(1),
			Abdominal: f(1), SupraIliac: f(1), Thigh: f(1),
		}, sex: SexMale, birth: year(1990), want: ErrInvalidMeasurement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BodyFatSkinfold7(tt.folds, tt.sex, tt.birth, assessedAt, RequireAll)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Missing sites are the one place where the two policies disagree: zero-fill
// produces a (downward-biased) number, require-all refuses to estimate.
func TestBodyFatSkinfold7_MissingSitePolicies(t *testing.T) {
	folds := uniformFolds(15)
	folds.Thigh = nil
	require.Equal(t, 6, folds.Present())

	_, err := BodyFatSkinfold7(folds, SexMale, year(1990), assessedAt, RequireAll)
	assert.ErrorIs(t, err, ErrIncompleteProtocolData)

	zeroFilled, err := BodyFatSkinfold7(folds, SexMale, year(1990), assessedAt, ZeroFill)
	require.NoError(t, err)

	complete := uniformFolds(15)
	full, err := BodyFatSkinfold7(complete, SexMale, year(1990), assessedAt, ZeroFill)
	require.NoError(t, err)
	assert.Less(t, zeroFilled, full, "zero-filled estimate is biased low")
}

func TestAgeInYears_IgnoresMonthAndDay(t *testing.T) {
	jan1 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	age, err := AgeInYears(year(2000), jan1)
	require.NoError(t, err)
	assert.Equal(t, 25, age)
}

func TestParsers(t *testing.T) {
	assert.Equal(t, SexMale, ParseSex("Masculino"))
	assert.Equal(t, SexFemale, ParseSex("female"))
	assert.Equal(t, SexUnknown, ParseSex("other"))
	assert.Equal(t, ZeroFill, ParseMissingSitePolicy("ZERO_FILL"))
	assert.Equal(t, RequireAll, ParseMissingSitePolicy(""))
	assert.Equal(t, ProtocolSkinfold7, ParseProtocol("pollock7"))
	assert.Equal(t, ProtocolBioimpedance, ParseProtocol("bioimpedance"))
	assert.Equal(t, ProtocolNone, ParseProtocol("dexa"))
}
