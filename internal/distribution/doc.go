// Package distribution splits a target amount across a fixed number of
// coupons drawn from a denomination set.
//
// Generation is a bounded randomized search: every coupon starts at the
// smallest face value, a single seeding pass spends the remaining budget on
// random upgrades, and adjustment rounds then nudge individual coupons up or
// down until the sum is exact or the round budget runs out. The search is a
// heuristic; callers must check Result.Exact (or use Distribute, which
// retries) before trusting a distribution.
package distribution
