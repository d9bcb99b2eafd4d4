package set_test

import (
	"fmt"

	"dasa.cc/pcv/set"
)

func Example() {
	// line ids hit by consecutive segments of the same polylines
	hits := []int{4, 1, 4, 7, 1, 1}

	// filter without allocating
	set.Filter(&hits)
	fmt.Println(hits)

	var sel set.Slice[int]
	sel.Insert(7)
	sel.Insert(2)
	fmt.Println(sel, sel.Has(2), sel.Remove(3))

	// Output:
	// [1 4 7]
	// [2 7] true false
}
