package gen

import (
	"math/rand/v2"
	"strconv"

	"fourree/internal/schema"
)

// Value renders one field of a row. The schema is validated before any
// generation starts, so an unknown kind here is a programming error.
func Value(rng *rand.Rand, f schema.Field) string {
	switch f.Kind {
	case schema.KindInteger:
		return strconv.FormatInt(Integer(rng, f.Min, f.Max), 10)
	case schema.KindGauss:
		return strconv.FormatInt(Gauss(rng, f.Mean, f.StdDev), 10)
	case schema.KindGaussFloat:
		return strconv.FormatFloat(GaussFloat(rng, f.Mean, f.StdDev), 'f', 2, 64)
	case schema.KindString:
		return String(rng, f.Length)
	case schema.KindDate:
		return Date(rng, f.MinYear, f.MaxYear).String()
	case schema.KindChoice:
		return Choice(rng, f.Choices, f.MinPicks, f.MaxPicks)
	case schema.KindUUID:
		return UUID(rng)
	}
	panic("gen: unknown generator kind " + strconv.Quote(f.Kind))
}

// Row generates one row of values in schema field order.
func Row(rng *rand.Rand, s *schema.Schema) []string {
	row := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		row[i] = Value(rng, f)
	}
	return row
}

// NewRand returns the RNG for one worker. A zero seed draws from OS
// entropy; a non-zero seed yields a reproducible stream per worker.
func NewRand(seed uint64, worker int) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, uint64(worker)+1))
}
