package denomination

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestDefaultReturnsStandardValues(t *testing.T) {
	t.Parallel()

	set := Default()
	want := []int{250, 500, 1000, 2000}
	if got := set.Values(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if set.Min() != 250 || set.Max() != 2000 {
		t.Fatalf("unexpected bounds: min=%d max=%d", set.Min(), set.Max())
	}

	// ensure mutation safety
	got := set.Values()
	got[0] = 999
	if set.Min() != 250 {
		t.Fatalf("expected defensive copy, min changed to %d", set.Min())
	}
}

func TestNewNormalizes(t *testing.T) {
	t.Parallel()

	set, err := New([]int{1000, 250, 500, 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{250, 500, 1000}
	if got := set.Values(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if set.Len() != 3 {
		t.Fatalf("expected 3 values, got %d", set.Len())
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := [][]int{
		nil,
		{},
		{0, 10},
		{-5, 100},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			if _, err := New(tc); !errors.Is(err, ErrInvalidDenominations) {
				t.Fatalf("expected ErrInvalidDenominations for %v, got %v", tc, err)
			}
		})
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	set := Default()
	for _, v := range []int{250, 500, 1000, 2000} {
		if !set.Contains(v) {
			t.Fatalf("expected %d to be a member", v)
		}
	}
	for _, v := range []int{0, 100, 750, 2250} {
		if set.Contains(v) {
			t.Fatalf("did not expect %d to be a member", v)
		}
	}
}

func TestAboveAndBelow(t *testing.T) {
	t.Parallel()

	set := Default()

	tests := []struct {
		name string
		got  []int
		want []int
	}{
		{name: "AboveUnbounded", got: set.Above(250, 10_000), want: []int{500, 1000, 2000}},
		{name: "AboveLimited", got: set.Above(250, 750), want: []int{500, 1000}},
		{name: "AboveNoneFits", got: set.Above(250, 100), want: nil},
		{name: "AboveFromMax", got: set.Above(2000, 10_000), want: nil},
		{name: "BelowUnbounded", got: set.Below(2000, 10_000), want: []int{250, 500, 1000}},
		{name: "BelowLimited", got: set.Below(2000, 1000), want: []int{1000}},
		{name: "BelowFromMin", got: set.Below(250, 10_000), want: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if !slices.Equal(tc.got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, tc.got)
			}
		})
	}
}

func TestZeroSetBounds(t *testing.T) {
	t.Parallel()

	var set Set
	if set.Min() != 0 || set.Max() != 0 || set.Len() != 0 {
		t.Fatalf("expected zero bounds for empty set")
	}
}
