package roster

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func TestGenerateCode_Shape(t *testing.T) {
	code, err := GenerateCode(issuedAt, rand.Reader)
	require.NoError(t, err)

	assert.True(t, ValidCode(code), "code %q", code)
	assert.True(t, strings.HasPrefix(code, "PERS-2024-"))
	suffix := strings.TrimPrefix(code, "PERS-2024-")
	// base36 of the millisecond timestamp followed by six random characters
	assert.Equal(t, "LTLBCVK0", suffix[:len(suffix)-6])
	assert.Len(t, suffix, len("LTLBCVK0")+6)
}

func TestGenerateCode_DeterministicReader(t *testing.T) {
	// bytes 0..5 map straight onto the first six base36 digits
	code, err := GenerateCode(issuedAt, bytes.NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(code, "012345"))
}

func TestGenerateCode_RejectsBiasedBytes(t *testing.T) {
	src := append(bytes.Repeat([]byte{255}, 12), []byte{35, 35, 35, 35, 35, 35, 0, 0, 0, 0, 0, 0}...)
	code, err := GenerateCode(issuedAt, bytes.NewReader(src))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(code, "ZZZZZZ"))
}

func TestGenerateCode_SameMillisecondDiffers(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := GenerateCode(issuedAt, rand.Reader)
		require.NoError(t, err)
		require.True(t, ValidCode(code))
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %q", code)
		seen[code] = struct{}{}
	}
}

func TestGenerateCode_ReaderFailure(t *testing.T) {
	_, err := GenerateCode(issuedAt, bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("PERS-2024-ABC123"))
	assert.False(t, ValidCode("PERS-24-ABC123"))
	assert.False(t, ValidCode("PERS-2024-abc123"))
	assert.False(t, ValidCode("PERS-2024-"))
	assert.False(t, ValidCode("XPERS-2024-ABC123"))
}

func fixedGenerator(maxAttempts int) *Generator {
	return &Generator{Rand: rand.Reader, Now: func() time.Time { return issuedAt }, MaxAttempts: maxAttempts}
}

func TestGenerator_RetriesTakenCodes(t *testing.T) {
	var checked []string
	exists := func(_ context.Context, code string) (bool, error) {
		checked = append(checked, code)
		return len(checked) < 3, nil
	}

	code, err := fixedGenerator(5).Next(context.Background(), exists)
	require.NoError(t, err)
	assert.Len(t, checked, 3)
	assert.Equal(t, checked[2], code)
}

func TestGenerator_FailsLoudlyWhenExhausted(t *testing.T) {
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := fixedGenerator(4).Next(context.Background(), exists)
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, 4, calls)
}

func TestGenerator_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store unavailable")
	_, err := fixedGenerator(3).Next(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGenerator_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fixedGenerator(3).Next(ctx, func(context.Context, string) (bool, error) { return false, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGenerator_DefaultAttempts(t *testing.T) {
	assert.Equal(t, DefaultMaxAttempts, NewGenerator(0).MaxAttempts)
	assert.Equal(t, 9, NewGenerator(9).MaxAttempts)
}
