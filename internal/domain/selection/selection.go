// Package selection picks banners for ad placement using weighted
// random sampling.
package selection

import (
	"math/rand"

	"bannerd/internal/domain/model"
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithRand sets the random source used for draws, typically to make
// tests deterministic. The provided source is not synchronized; callers
// sharing a Selector across goroutines should leave the default in place.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Selector chooses one banner from a candidate set with probability
// proportional to each banner's weight.
type Selector struct {
	rng *rand.Rand
}

// New creates a selector. Without options it draws from the shared
// math/rand source, which is uniformly seeded and safe for concurrent use.
func New(opts ...Option) *Selector {
	s := &Selector{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pick returns one candidate with probability weight/totalWeight, walking
// candidates in the order given. The boolean is false when candidates is
// empty. If every weight is non-positive the first candidate is returned.
func (s *Selector) Pick(candidates []model.Banner) (model.Banner, bool) {
	if len(candidates) == 0 {
		return model.Banner{}, false
	}

	total := 0
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return candidates[0], true
	}

	r := s.intn(total)
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		r -= c.Weight
		if r < 0 {
			return c, true
		}
	}

	// unreachable: the draw is below the positive-weight sum
	return candidates[len(candidates)-1], true
}

func (s *Selector) intn(n int) int {
	if s.rng != nil {
		return s.rng.Intn(n)
	}
	return rand.Intn(n)
}
