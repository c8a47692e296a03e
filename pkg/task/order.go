package task

// OrderGap is the spacing between appended siblings. The gap leaves room for
// repeated midpoint insertion before any float precision trouble.
const OrderGap = 100000

// OrderAfter returns the order value for a task appended after the sibling
// with the given order.
func OrderAfter(last float64) float64 {
	return last + OrderGap
}

// OrderBetween returns the midpoint order value for a task dropped between
// two siblings.
func OrderBetween(prev, next float64) float64 {
	return (prev + next) / 2
}

// OrderFirst returns the order value for a task dropped above the sibling
// with the given order.
func OrderFirst(first float64) float64 {
	return first - OrderGap
}
