// Package roster links trainees to trainers through the trainer's shareable
// code and derives each trainee's configuration status.
//
// The code is the only relationship key: trainee records carry a copy of it
// and a roster is every trainee whose copy equals the trainer's code exactly.
// A trainer's code therefore must never change once issued, or the whole
// roster is orphaned.
package roster

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// CodePrefix starts every trainer code.
	CodePrefix = "PERS-"
	// randomSuffixLen is the number of random base36 characters after the timestamp.
	randomSuffixLen = 6
	// DefaultMaxAttempts bounds regeneration when a candidate code is taken.
	DefaultMaxAttempts = 5
)

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodePattern matches PERS-<year>-<uppercase base36 timestamp + random suffix>.
var CodePattern = regexp.MustCompile(`^PERS-\d{4}-[0-9A-Z]+$`)

var (
	ErrCodeSpaceExhausted = errors.New("could not generate an unused trainer code")
	ErrEmptyCode          = errors.New("trainer code is required")
)

// ValidCode reports whether s has the shape of a generated code. It says
// nothing about whether a trainer owns it.
func ValidCode(s string) bool {
	return CodePattern.MatchString(s)
}

// GenerateCode builds PERS-<year>-<base36 unix millis><6 random base36 chars>,
// all uppercase. r supplies the randomness.
func GenerateCode(now time.Time, r io.Reader) (string, error) {
	suffix, err := randomBase36(r, randomSuffixLen)
	if err != nil {
		return "", fmt.Errorf("trainer code randomness: %w", err)
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf("%s%04d-%s%s", CodePrefix, now.Year(), stamp, suffix), nil
}

// randomBase36 draws n uniform base36 digits, rejecting bytes >= 252 so that
// the modulo does not skew the distribution.
func randomBase36(r io.Reader, n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= 252 {
				continue
			}
			out = append(out, base36Digits[int(b)%36])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// ExistsFunc reports whether a code is already assigned to a trainer.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator issues codes that were checked against the store before use.
type Generator struct {
	Rand        io.Reader
	Now         func() time.Time
	MaxAttempts int
}

// NewGenerator returns a Generator backed by crypto/rand and the wall clock.
func NewGenerator(maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{Rand: rand.Reader, Now: time.Now, MaxAttempts: maxAttempts}
}

// Next returns a code for which exists reported false. After MaxAttempts
// taken candidates it gives up with ErrCodeSpaceExhausted.
func (g *Generator) Next(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := GenerateCode(g.Now(), g.Rand)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check trainer code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, g.MaxAttempts)
}
