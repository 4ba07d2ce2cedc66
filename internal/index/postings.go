package index

import "sort"

// PostingList is the ordered set of document IDs that contain a term.
// Invariants: ascending order, no duplicates. All set operations below
// rely on both inputs holding these invariants and preserve them in the
// result.
type PostingList []string

// Contains reports whether docID is a member of the list.
func (p PostingList) Contains(docID string) bool {
	i := sort.SearchStrings(p, docID)
	return i < len(p) && p[i] == docID
}

// Clone returns an independent copy of the list.
func (p PostingList) Clone() PostingList {
	if p == nil {
		return nil
	}
	out := make(PostingList, len(p))
	copy(out, p)
	return out
}

// Intersect returns the documents present in both a and b using a
// linear merge over the sorted inputs.
func Intersect(a, b PostingList) PostingList {
	if len(a) == 0 || len(b) == 0 {
		return PostingList{}
	}
	result := make(PostingList, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return result
}

// Union returns the documents present in either a or b, duplicates
// eliminated.
func Union(a, b PostingList) PostingList {
	result := make(PostingList, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			result = append(result, a[i])
			i++
		default:
			result = append(result, b[j])
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}

// Difference returns the documents present in a but not in b. This is
// the direct set-difference behind AND NOT: it never materialises the
// complement of b.
func Difference(a, b PostingList) PostingList {
	if len(a) == 0 {
		return PostingList{}
	}
	if len(b) == 0 {
		return a.Clone()
	}
	result := make(PostingList, 0, len(a))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] < b[j]:
			result = append(result, a[i])
			i++
		default:
			j++
		}
	}
	result = append(result, a[i:]...)
	return result
}
