package rects

import (
	"sort"
	"strconv"
	"strings"
)

// CompareZOrder returns -1 if a is drawn in front of b, +1 if a is drawn
// behind b, and 0 if their order is undefined (equal paths and owners).
func CompareZOrder(a, b Rect) int {
	pa, pb := a.ZOrderPath, b.ZOrderPath
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if pa[i] > pb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(pa) > len(pb):
		return -1
	case len(pa) < len(pb):
		return 1
	}
	return -compareIDs(a.OwnerID, b.OwnerID)
}

// compareIDs compares numerically if both ids are integers, otherwise
// lexicographically.
func compareIDs(a, b string) int {
	ia, errA := strconv.ParseInt(a, 10, 64)
	ib, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case ia < ib:
			return -1
		case ia > ib:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// SortFrontToBack sorts rects in place, front-most rect first. The sort is
// stable, rects of equal order keep their relative position.
func SortFrontToBack(rs []Rect) {
	sort.SliceStable(rs, func(i, j int) bool {
		return CompareZOrder(rs[i], rs[j]) < 0
	})
	tracer().Debugf("sorted %d rects front to back", len(rs))
}
