package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type linked struct {
	name string
	code string
}

func codeOf(l linked) string { return l.code }

func TestMatch_ExactCodeOnly(t *testing.T) {
	trainees := []linked{
		{"ana", "PERS-2024-ABC123"},
		{"bruno", "PERS-2024-ABC123"},
		{"carla", "PERS-9999-ZZZZZZ"},
	}

	got := Match("PERS-2024-ABC123", trainees, codeOf)
	assert.Equal(t, []linked{trainees[0], trainees[1]}, got)
}

func TestMatch_NoPartialOrCaseInsensitiveMatches(t *testing.T) {
	trainees := []linked{
		{"prefix", "PERS-2024-ABC1234"},
		{"lower", "pers-2024-abc123"},
		{"padded", " PERS-2024-ABC123"},
		{"short", "PERS-2024-ABC12"},
	}
	assert.Empty(t, Match("PERS-2024-ABC123", trainees, codeOf))
}

func TestMatch_UnresolvedCodeIsEmptyNotError(t *testing.T) {
	trainees := []linked{{"typo", "PERS-2024-ABC12X"}}
	got := Match("PERS-2024-ABC123", trainees, codeOf)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Match("", []linked{{"blank", ""}}, codeOf))
}
