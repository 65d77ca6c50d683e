/*
Package rules holds the ordered rule tables that turn pipeline signals into a
decision narrative and a decision narrative into an action plan.

Both tables are evaluated first-match-wins. Order is part of the contract:
several action phrases are substrings of one another, and several decision
predicates overlap, so reordering entries changes the output.
*/
package rules

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Currency formats an amount as whole dollars with comma grouping, e.g. $104,500.
// Halfway values round to even.
func Currency(v float64) string {
	return "$" + humanize.Comma(int64(math.RoundToEven(v)))
}
