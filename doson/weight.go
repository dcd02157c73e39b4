package doson

import (
	"cmp"
	"math"
	"slices"
)

// NoWeight is the weight reported by values without a numeric weight of
// their own: None, String, Boolean and Binary.
const NoWeight = math.MaxFloat64

// Weight returns the sort key of v. Numbers weigh their value. Lists, dicts
// and tuples weigh the sum of their contents, where contents without a
// numeric weight count as 0. Every other value weighs NoWeight.
func (v Value) Weight() float64 {
	if w, ok := v.weight(); ok {
		return w
	}
	return NoWeight
}

// weight returns the intrinsic weight of v, if it has one. Tracking
// absence separately keeps a genuine Number(math.MaxFloat64) from being
// mistaken for the NoWeight sentinel inside a composite.
func (v Value) weight() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.numVal, true
	case KindList:
		return sumWeights(v.listVal), true
	case KindDict:
		var total float64
		for _, e := range v.dictVal {
			if w, ok := e.weight(); ok {
				total += w
			}
		}
		return total, true
	case KindTuple:
		return sumWeights(v.pairVal[:]), true
	default:
		return 0, false
	}
}

func sumWeights(values []Value) float64 {
	var total float64
	for _, e := range values {
		if w, ok := e.weight(); ok {
			total += w
		}
	}
	return total
}

// Size returns the payload size of v in bytes: 0 for None, the UTF-8 length
// of a string, 8 for a number, 1 for a boolean, the blob length for binary,
// and the sum of the element sizes for lists, dicts (keys excluded) and
// tuples.
func (v Value) Size() int {
	switch v.kind {
	case KindString:
		return len(v.strVal)
	case KindNumber:
		return 8
	case KindBoolean:
		return 1
	case KindList:
		total := 0
		for _, e := range v.listVal {
			total += e.Size()
		}
		return total
	case KindDict:
		total := 0
		for _, e := range v.dictVal {
			total += e.Size()
		}
		return total
	case KindTuple:
		return v.pairVal[0].Size() + v.pairVal[1].Size()
	case KindBinary:
		return v.blobVal.Size()
	default:
		return 0
	}
}

// ============================================================
// Ordering
// ============================================================

// Compare orders values by weight. It returns -1, 0 or +1. Values of equal
// weight compare as 0, as does any comparison involving a NaN weight.
func Compare(a, b Value) int {
	wa, wb := a.Weight(), b.Weight()
	if math.IsNaN(wa) || math.IsNaN(wb) {
		return 0
	}
	return cmp.Compare(wa, wb)
}

// Less reports whether a weighs less than b.
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

// SortValues sorts values by weight in place. Values of equal weight keep
// their relative order.
func SortValues(values []Value) {
	slices.SortStableFunc(values, Compare)
}
