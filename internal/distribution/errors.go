package distribution

import "errors"

var (
	// ErrInvalidTarget is returned when the target amount is not a positive integer.
	ErrInvalidTarget = errors.New("target amount must be a positive integer")
	// ErrInvalidCount is returned when the number of coupons is not a positive integer.
	ErrInvalidCount = errors.New("number of coupons must be a positive integer")
	// ErrInfeasibleLow is returned when even the smallest face value on every coupon exceeds the target.
	ErrInfeasibleLow = errors.New("target amount too low for the number of coupons")
	// ErrInfeasibleHigh is returned when even the largest face value on every coupon falls short of the target.
	ErrInfeasibleHigh = errors.New("target amount too high for the number of coupons")
	// ErrSearchExhausted is returned by Distribute when no attempt produced an exact distribution.
	ErrSearchExhausted = errors.New("could not generate an exact distribution")
)
