package session

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Expiry normalizes the supported expiry inputs (duration string, millisecond
// offset, absolute instant, or unset) into one absolute instant. Resolution is
// pure: the same Expiry and wall clock always produce the same instant.
type Expiry struct {
	at  time.Time
	ttl time.Duration
	set bool
}

// ExpiryAt wraps an absolute instant. The zero instant carries no information
// and yields an unset Expiry rather than one that resolves to "now".
func ExpiryAt(t time.Time) Expiry {
	if t.IsZero() {
		return Expiry{}
	}
	return Expiry{at: t, set: true}
}

// ExpiryIn wraps a relative duration.
func ExpiryIn(ttl time.Duration) Expiry {
	return Expiry{ttl: ttl, set: true}
}

// ExpiryInMillis wraps a relative duration given as a millisecond offset.
func ExpiryInMillis(ms int64) Expiry {
	return ExpiryIn(time.Duration(ms) * time.Millisecond)
}

// durationRe accepts the compact human format: "2d", "1.5h", "90s", "100ms".
var durationRe = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*(ms|s|m|h|d|w)$`)

var unitMillis = map[string]float64{
	"ms": 1,
	"s":  1000,
	"m":  60 * 1000,
	"h":  60 * 60 * 1000,
	"d":  24 * 60 * 60 * 1000,
	"w":  7 * 24 * 60 * 60 * 1000,
}

// ParseExpiry parses a human duration string ("2d", "1h", "30m") into a
// relative Expiry. Unparseable input fails loudly so misconfiguration is
// caught at setup time rather than silently defaulting.
func ParseExpiry(s string) (Expiry, error) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return Expiry{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Expiry{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	ms := value * unitMillis[m[2]]
	return ExpiryIn(time.Duration(ms) * time.Millisecond), nil
}

// MustParseExpiry is ParseExpiry for configuration values that must be valid
// for the application to start.
func MustParseExpiry(s string) Expiry {
	e, err := ParseExpiry(s)
	if err != nil {
		panic(err)
	}
	return e
}

// IsSet reports whether the expiry carries a value. An unset Expiry means
// "no override" and resolves to nothing.
func (e Expiry) IsSet() bool {
	return e.set
}

// Resolve returns the absolute expiry instant for the given wall clock, or
// false when the expiry is unset.
func (e Expiry) Resolve(now time.Time) (time.Time, bool) {
	if !e.set {
		return time.Time{}, false
	}
	if !e.at.IsZero() {
		return e.at, true
	}
	return now.Add(e.ttl), true
}
