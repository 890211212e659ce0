package distribution

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/eugenenazirov/coupon-distributor/internal/denomination"
)

const (
	// DefaultMaxRounds bounds the exact-adjustment phase of a single Generate call.
	DefaultMaxRounds = 1000
	// DefaultMaxAttempts bounds the Generate calls made by Distribute and BuildAlternatives.
	DefaultMaxAttempts = 100
)

// Generator produces randomized coupon distributions over a fixed denomination set.
type Generator struct {
	set         denomination.Set
	source      Source
	maxRounds   int
	maxAttempts int
}

// Option configures Generator behaviour.
type Option func(*Generator)

// WithSource overrides the randomness source, primarily for tests.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.source = src
		}
	}
}

// WithMaxRounds overrides the adjustment round budget. Non-positive values keep the default.
func WithMaxRounds(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxRounds = n
		}
	}
}

// WithMaxAttempts overrides the attempt budget. Non-positive values keep the default.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// New creates a Generator drawing from set.
func New(set denomination.Set, opts ...Option) *Generator {
	g := &Generator{
		set:         set,
		source:      GlobalSource(),
		maxRounds:   DefaultMaxRounds,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Denominations returns the face values the generator draws from.
func (g *Generator) Denominations() denomination.Set {
	return g.set
}

// Feasibility reports whether any distribution of count coupons can sum to target.
// It only checks the bounds; a request inside them may still be unreachable
// when target is not a combination of the face values.
func (g *Generator) Feasibility(target, count int) error {
	if target <= 0 {
		return ErrInvalidTarget
	}
	if count <= 0 {
		return ErrInvalidCount
	}
	if low := count * g.set.Min(); target < low {
		return fmt.Errorf("%w: minimum is %d for %d coupons", ErrInfeasibleLow, low, count)
	}
	if high := count * g.set.Max(); target > high {
		return fmt.Errorf("%w: maximum is %d for %d coupons", ErrInfeasibleHigh, high, count)
	}
	return nil
}

// Generate runs one randomized search. Running out of adjustment rounds is not
// an error: the best-effort sequence is returned with Exact set to false.
func (g *Generator) Generate(target, count int) (Result, error) {
	if err := g.Feasibility(target, count); err != nil {
		return Result{}, err
	}

	values, total := g.seed(target, count)
	total, rounds := g.adjust(values, total, target)

	return Result{
		Values:   values,
		Target:   target,
		Rounds:   rounds,
		Attempts: 1,
		Exact:    total == target,
	}, nil
}

// seed sets every coupon to the smallest face value and spends the remaining
// budget on one pass of random upgrades. It returns the coupons and their sum.
func (g *Generator) seed(target, count int) ([]int, int) {
	low := g.set.Min()
	values := make([]int, count)
	for i := range values {
		values[i] = low
	}

	remaining := target - count*low
	for i := range values {
		if remaining <= 0 {
			break
		}
		upgrades := g.set.Above(values[i], remaining)
		if len(upgrades) == 0 {
			continue
		}
		next := g.pick(upgrades)
		remaining -= next - values[i]
		values[i] = next
	}
	return values, target - remaining
}

// adjust moves coupons towards target in place, one position at a time, for at
// most maxRounds rounds. It returns the new sum and the rounds spent.
func (g *Generator) adjust(values []int, total, target int) (int, int) {
	rounds := 0
	for total != target && rounds < g.maxRounds {
		rounds++
		changed := false
		for i, current := range values {
			if total == target {
				break
			}

			var choices []int
			if diff := target - total; diff > 0 {
				choices = g.set.Above(current, diff)
			} else {
				choices = g.set.Below(current, -diff)
			}
			if len(choices) == 0 {
				continue
			}

			next := g.pick(choices)
			total += next - current
			values[i] = next
			changed = true
		}
		// A round without changes repeats identically from here on.
		if !changed {
			break
		}
	}
	return total, rounds
}

// Distribute retries Generate until it produces an exact distribution. When the
// attempt budget runs out the last result is returned with ErrSearchExhausted.
func (g *Generator) Distribute(target, count int) (Result, error) {
	if err := g.Feasibility(target, count); err != nil {
		return Result{}, err
	}

	var last Result
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		res, err := g.Generate(target, count)
		if err != nil {
			return Result{}, err
		}
		res.Attempts = attempt
		if res.Exact {
			return res, nil
		}
		last = res
	}
	return last, ErrSearchExhausted
}

// BuildAlternatives collects up to limit exact distributions whose sorted
// multisets differ, in discovery order. Falling short of limit within the
// attempt budget is a valid partial result.
func (g *Generator) BuildAlternatives(target, count, limit int) (Alternatives, error) {
	if err := g.Feasibility(target, count); err != nil {
		return Alternatives{}, err
	}
	if limit <= 0 {
		return Alternatives{Distributions: [][]int{}}, nil
	}

	out := Alternatives{Distributions: make([][]int, 0, limit)}
	seen := make(map[string]struct{}, limit)
	for out.Attempts < g.maxAttempts && len(out.Distributions) < limit {
		out.Attempts++

		res, err := g.Generate(target, count)
		if err != nil {
			return out, err
		}
		if !Valid(res.Values, target, count, g.set) {
			continue
		}

		key := multisetKey(res.Values)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Distributions = append(out.Distributions, res.Values)
	}
	return out, nil
}

// Valid reports whether values is an exact distribution of count coupons
// summing to target, drawn only from set.
func Valid(values []int, target, count int, set denomination.Set) bool {
	if len(values) != count {
		return false
	}
	for _, v := range values {
		if !set.Contains(v) {
			return false
		}
	}
	return sum(values) == target
}

func (g *Generator) pick(choices []int) int {
	return choices[g.source.IntN(len(choices))]
}

func multisetKey(values []int) string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var b strings.Builder
	for i, v := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
