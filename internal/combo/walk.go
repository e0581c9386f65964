// Package combo enumerates ingredient combinations and picks puzzle targets.
//
// Combinations are index subsets without repetition, visited in
// lexicographic order within a size and by increasing size across sizes.
// The walker keeps its state in an explicit index stack; visitors receive
// that stack and must copy it if they retain it.
package combo

// MinSize is the smallest combination that can be brewed.
const MinSize = 2

// Visitor receives each combination. Returning true stops the walk.
type Visitor func(indices []int) bool

// Walk visits every k-subset of [0, n) in lexicographic order.
// Reports whether a visitor stopped the walk.
func Walk(n, k int, visit Visitor) bool {
	if k <= 0 || k > n {
		return false
	}
	stack := make([]int, 0, k)
	next := 0
	for {
		if len(stack) == k {
			if visit(stack) {
				return true
			}
			next = stack[len(stack)-1] + 1
			stack = stack[:len(stack)-1]
			continue
		}
		if remaining := k - len(stack); next <= n-remaining {
			stack = append(stack, next)
			next++
			continue
		}
		if len(stack) == 0 {
			return false
		}
		next = stack[len(stack)-1] + 1
		stack = stack[:len(stack)-1]
	}
}

// WalkSizes visits every subset with size in [minK, maxK], smaller sizes first.
func WalkSizes(n, minK, maxK int, visit Visitor) bool {
	for k := minK; k <= maxK; k++ {
		if Walk(n, k, visit) {
			return true
		}
	}
	return false
}

// Count returns C(n, k).
func Count(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 0; i < k; i++ {
		c = c * (n - i) / (i + 1)
	}
	return c
}
