// Package gen produces random field values and assembles them into rows
// according to a schema. Every generator draws from an explicit
// *rand.Rand so a seeded run is reproducible.
package gen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Integer returns a uniform value in [min, max], inclusive on both ends.
func Integer(rng *rand.Rand, min, max int64) int64 {
	if min >= max {
		return min
	}
	span := max - min + 1
	if span <= 0 {
		// The range covers the whole int64 domain; span arithmetic wrapped.
		return rng.Int64()
	}
	return min + rng.Int64N(span)
}

// Gauss returns a normal sample rounded to a non-negative integer.
func Gauss(rng *rand.Rand, mean, stdDev float64) int64 {
	v := rng.NormFloat64()*stdDev + mean
	if v < 0 {
		v = 0
	}
	return int64(math.Round(v))
}

// GaussFloat returns a raw normal sample. Negative values are allowed.
func GaussFloat(rng *rand.Rand, mean, stdDev float64) float64 {
	return rng.NormFloat64()*stdDev + mean
}

// String returns an uppercase A-Z string of exactly length characters.
func String(rng *rand.Rand, length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(uppercaseChars[rng.IntN(len(uppercaseChars))])
	}
	return b.String()
}

// DateValue is a calendar date rendered month-first, e.g. "7/23/1997".
type DateValue struct {
	Year  int
	Month int
	Day   int
}

func (d DateValue) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Month, d.Day, d.Year)
}

// daysIn ignores leap years: February always has 28 days.
func daysIn(month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 2:
		return 28
	default:
		return 30
	}
}

// Date returns a valid calendar date with the year drawn uniformly from
// [minYear, maxYear].
func Date(rng *rand.Rand, minYear, maxYear int) DateValue {
	month := 1 + rng.IntN(12)
	day := 1 + rng.IntN(daysIn(month))
	year := minYear
	if maxYear > minYear {
		year += rng.IntN(maxYear - minYear + 1)
	}
	return DateValue{Year: year, Month: month, Day: day}
}

// Choice concatenates k values picked uniformly (with replacement) from
// choices, where k is uniform in [minPicks, maxPicks].
func Choice(rng *rand.Rand, choices []string, minPicks, maxPicks int) string {
	k := minPicks
	if maxPicks > minPicks {
		k += rng.IntN(maxPicks - minPicks + 1)
	}
	if k == 1 {
		return choices[rng.IntN(len(choices))]
	}
	var b strings.Builder
	for i := 0; i < k; i++ {
		b.WriteString(choices[rng.IntN(len(choices))])
	}
	return b.String()
}

// UUID returns a version 4 UUID whose randomness comes from rng, so
// seeded runs emit reproducible identifiers.
func UUID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rngReader{rng})
	if err != nil {
		// rngReader never fails; keep the generator total anyway.
		return uuid.Nil.String()
	}
	return id.String()
}

// rngReader adapts a math/rand/v2 source to io.Reader for uuid creation.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for len(p) >= 8 {
		v := r.rng.Uint64()
		p[0] = byte(v)
		p[1] = byte(v >> 8)
		p[2] = byte(v >> 16)
		p[3] = byte(v >> 24)
		p[4] = byte(v >> 32)
		p[5] = byte(v >> 40)
		p[6] = byte(v >> 48)
		p[7] = byte(v >> 56)
		p = p[8:]
	}
	if len(p) > 0 {
		v := r.rng.Uint64()
		for i := range p {
			p[i] = byte(v >> (8 * i))
		}
	}
	return len(p), nil
}
