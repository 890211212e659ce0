package denomination

import (
	"errors"
	"slices"
	"sort"
)

const maxDenominations = 10

var (
	// ErrInvalidDenominations indicates the provided face values violate validation rules.
	ErrInvalidDenominations = errors.New("denominations must contain between 1 and 10 positive integers")
)

var defaultDenominations = []int{250, 500, 1000, 2000}

// Set is an immutable, ascending collection of coupon face values.
// The zero value is empty and unusable; construct with New or Default.
type Set struct {
	values []int
}

// New validates, de-duplicates, and sorts the provided face values.
func New(values []int) (Set, error) {
	normalized, err := normalize(values)
	if err != nil {
		return Set{}, err
	}
	return Set{values: normalized}, nil
}

// Default returns the standard coupon face values.
func Default() Set {
	return Set{values: cloneAndSort(defaultDenominations)}
}

// DefaultValues returns a copy of the standard coupon face values.
func DefaultValues() []int {
	return cloneAndSort(defaultDenominations)
}

// Values returns a copy of the face values in ascending order.
func (s Set) Values() []int {
	return slices.Clone(s.values)
}

// Len returns the number of face values.
func (s Set) Len() int {
	return len(s.values)
}

// Min returns the smallest face value, or 0 for an empty set.
func (s Set) Min() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[0]
}

// Max returns the largest face value, or 0 for an empty set.
func (s Set) Max() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// Contains reports whether v is one of the face values.
func (s Set) Contains(v int) bool {
	_, found := slices.BinarySearch(s.values, v)
	return found
}

// Above returns the face values strictly greater than current whose
// increase over current does not exceed limit, ascending.
func (s Set) Above(current, limit int) []int {
	var out []int
	for _, v := range s.values {
		if v > current && v-current <= limit {
			out = append(out, v)
		}
	}
	return out
}

// Below returns the face values strictly less than current whose
// decrease from current does not exceed limit, ascending.
func (s Set) Below(current, limit int) []int {
	var out []int
	for _, v := range s.values {
		if v < current && current-v <= limit {
			out = append(out, v)
		}
	}
	return out
}

func cloneAndSort(src []int) []int {
	if len(src) == 0 {
		return []int{}
	}

	out := make([]int, len(src))
	copy(out, src)
	sort.Ints(out)
	return out
}

func normalize(values []int) ([]int, error) {
	if len(values) == 0 {
		return nil, ErrInvalidDenominations
	}

	unique := make(map[int]struct{}, len(values))
	for _, v := range values {
		if v <= 0 {
			return nil, ErrInvalidDenominations
		}
		unique[v] = struct{}{}
		if len(unique) > maxDenominations {
			return nil, ErrInvalidDenominations
		}
	}

	out := make([]int, 0, len(unique))
	for v := range unique {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}
