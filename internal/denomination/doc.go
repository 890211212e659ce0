// Package denomination holds the fixed set of coupon face values a
// distribution may draw from. A Set is validated once at construction and
// never mutated afterwards, so it is safe to share across goroutines.
package denomination
