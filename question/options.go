package question

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// optionSet collects distinct display strings, answer first.
type optionSet struct {
	want    int
	options []string
	seen    map[string]struct{}
}

func newOptionSet(answer string, want int) *optionSet {
	s := &optionSet{
		want: want,
		seen: make(map[string]struct{}, want),
	}
	s.add(answer)
	return s
}

// add ignores empty strings, duplicates and anything past the target size.
func (s *optionSet) add(opt string) {
	if opt == "" || s.full() {
		return
	}
	if _, dup := s.seen[opt]; dup {
		return
	}
	s.seen[opt] = struct{}{}
	s.options = append(s.options, opt)
}

func (s *optionSet) full() bool {
	return len(s.options) >= s.want
}

func (s *optionSet) shuffled(r *rand.Rand) []string {
	out := make([]string, len(s.options))
	copy(out, s.options)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// distractors are tried in order: harvest up to harvestAttempts draws, then the
// fixed pool, then synthesize until the set is full.
type distractors struct {
	harvest         func() string
	harvestAttempts int
	pool            []string
	synthesize      func() string
}

func (g *Generator) fill(s *optionSet, d distractors) error {
	if d.harvest != nil {
		for i := 0; i < d.harvestAttempts && !s.full(); i++ {
			s.add(d.harvest())
		}
	}

	if !s.full() && len(d.pool) > 0 {
		pool := make([]string, len(d.pool))
		copy(pool, d.pool)
		g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for _, opt := range pool {
			s.add(opt)
		}
	}

	if d.synthesize != nil {
		for i := 0; i < MaxSynthesizeAttempts && !s.full(); i++ {
			s.add(d.synthesize())
		}
	}

	if !s.full() {
		return errors.Wrapf(ErrOptionsExhausted, "have %d of %d", len(s.options), s.want)
	}
	return nil
}
