package frames

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrLabelsMismatch is returned by SafeHStack when the frames do not share the same labels.
var ErrLabelsMismatch = errors.New("all data frames must share the same labels")

// SafeHStack horizontally concatenates `frames`, in order.
// Every frame must have the same label values as the first (label names are not compared),
// and no column name may appear in more than one frame.
// The result keeps the labels of the first frame.
func SafeHStack(frames ...*DataFrame) (*DataFrame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("SafeHStack(): at least one data frame must be provided")
	}
	for k, df := range frames {
		if df.err != nil {
			return nil, fmt.Errorf("SafeHStack(): frames[%d]: %w", k, df.err)
		}
	}
	first := frames[0]
	for k, df := range frames[1:] {
		if !labelsEqual(first.labels, df.labels) {
			return nil, fmt.Errorf("SafeHStack(): %w, but frames[%d] labels are not equal to frames[0] labels",
				ErrLabelsMismatch, k+1)
		}
	}
	counts := make(map[string]int)
	for _, df := range frames {
		for _, name := range df.ListColNames() {
			counts[name]++
		}
	}
	var repeats []string
	for name, n := range counts {
		if n > 1 {
			repeats = append(repeats, name)
		}
	}
	if len(repeats) > 0 {
		sort.Strings(repeats)
		return nil, fmt.Errorf("SafeHStack(): %w: column names must be unique across data frames, but these repeat: %v",
			ErrColumnNameCollision, repeats)
	}
	ret := first.Copy()
	for _, df := range frames[1:] {
		ret.values = append(ret.values, copyContainers(df.values)...)
	}
	return ret, nil
}

// labelsEqual compares label values level by level, ignoring level names.
func labelsEqual(a, b []*valueContainer) bool {
	if len(a) != len(b) {
		return false
	}
	for j := range a {
		if a[j].len() != b[j].len() || a[j].dtype() != b[j].dtype() {
			return false
		}
		if !reflect.DeepEqual(a[j].isNull, b[j].isNull) {
			return false
		}
		if !reflect.DeepEqual(a[j].str().slice, b[j].str().slice) {
			return false
		}
	}
	return true
}
