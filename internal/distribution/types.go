package distribution

import "github.com/eugenenazirov/coupon-distributor/internal/denomination"

// Result is the outcome of a single generation run. Values is always
// populated for feasible requests; Exact reports whether it actually sums to
// Target with the requested number of coupons.
type Result struct {
	Values   []int
	Target   int
	Rounds   int
	Attempts int
	Exact    bool
}

// Sum returns the total face value of the distribution.
func (r Result) Sum() int {
	return sum(r.Values)
}

// Alternatives holds distinct exact distributions in discovery order.
type Alternatives struct {
	Distributions [][]int
	Attempts      int
}

// Distributor describes the behaviour required from a coupon distribution generator.
type Distributor interface {
	Denominations() denomination.Set
	Feasibility(target, count int) error
	Generate(target, count int) (Result, error)
	Distribute(target, count int) (Result, error)
	BuildAlternatives(target, count, limit int) (Alternatives, error)
}

var _ Distributor = (*Generator)(nil)
