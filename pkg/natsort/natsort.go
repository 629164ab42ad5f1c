// Package natsort orders filenames by the numeric value of their embedded
// digit run rather than by byte order, so frame_2.png sorts before
// frame_10.png.
package natsort

import (
	"math"
	"sort"
	"strings"
)

// FrameIndex extracts the first run of decimal digits in name and returns
// its numeric value. The second result is false when name contains no digits
// or the run overflows int.
func FrameIndex(name string) (int, bool) {
	start := -1
	for i := 0; i < len(name); i++ {
		if name[i] >= '0' && name[i] <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	n := 0
	for i := start; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// Less reports whether a orders before b. Names with a digit run order by
// its numeric value, ties broken lexically. Names without a digit run
// degrade to lexical order and sort after all numbered names; this keeps the
// comparison total instead of failing the caller.
func Less(a, b string) bool {
	na, oka := FrameIndex(a)
	nb, okb := FrameIndex(b)

	switch {
	case oka && okb:
		if na != nb {
			return na < nb
		}
		return strings.Compare(a, b) < 0
	case oka:
		return true
	case okb:
		return false
	default:
		return strings.Compare(a, b) < 0
	}
}

// Sort orders names in place using Less. The sort is stable.
func Sort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Less(names[i], names[j])
	})
}
