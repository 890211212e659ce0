package distribution

import "sort"

// Line is one row of a distribution summary: how many coupons of a face value
// were issued and what they are worth together.
type Line struct {
	Denomination int `json:"denomination"`
	Count        int `json:"count"`
	Subtotal     int `json:"subtotal"`
}

// Summary aggregates a distribution per face value.
type Summary struct {
	Lines []Line `json:"lines"`
	Units int    `json:"units"`
	Total int    `json:"total"`
}

// Summarize groups values by face value in ascending order.
func Summarize(values []int) Summary {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	faces := make([]int, 0, len(counts))
	for v := range counts {
		faces = append(faces, v)
	}
	sort.Ints(faces)

	s := Summary{Lines: make([]Line, 0, len(faces))}
	for _, v := range faces {
		count := counts[v]
		s.Lines = append(s.Lines, Line{
			Denomination: v,
			Count:        count,
			Subtotal:     v * count,
		})
		s.Units += count
		s.Total += v * count
	}
	return s
}
