// Package tabulation counts the distinct values of a Series.
//
// A Tabulation holds the distinct values (keys) in ascending order, with nulls as a final bucket,
// together with the number of times each occurs:
//
//	tb, err := tabulation.Tabulate(df.Col("color"))
//	sub, err := tb.Select("red", nil) // nil selects the null bucket
//	rates := sub.Rates()
package tabulation

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/zkurtz/pandahandler/frames"
)

var (
	// ErrMissingKeys is returned by Select when a requested key was never observed.
	ErrMissingKeys = errors.New("keys not found in tabulation")
	// ErrNotMonotonic is returned when the non-null keys of a tabulation are not strictly increasing.
	ErrNotMonotonic = errors.New("expected keys to be monotonic increasing (ignoring nulls)")
)

const nullKey = "\x00null"

// A Tabulation is the counts of the distinct values of a data set. It is immutable once constructed.
type Tabulation struct {
	name        string
	keys        []frames.Element
	counts      []int
	categorical bool
	nValues     int
	nDistinct   int

	ratesOnce sync.Once
	rates     []float64
}

// An Option configures Tabulate.
type Option func(*config)

type config struct {
	name      *string
	dropNulls bool
}

// WithName names the tabulation (default: the name of the Series).
func WithName(name string) Option {
	return func(c *config) {
		c.name = &name
	}
}

// WithDropNulls excludes null values: there is no null bucket and NValues counts only non-null values.
func WithDropNulls() Option {
	return func(c *config) {
		c.dropNulls = true
	}
}

// Tabulate counts the distinct values of `series`, in ascending order with nulls last.
// A categorical Series is tabulated over its categories, in category order, including categories that never occur.
func Tabulate(series *frames.Series, options ...Option) (*Tabulation, error) {
	if err := series.Err(); err != nil {
		return nil, fmt.Errorf("Tabulate(): %w", err)
	}
	c := &config{}
	for _, option := range options {
		option(c)
	}
	name := series.Name()
	if c.name != nil {
		name = *c.name
	}
	keys, counts := series.ValueCounts(c.dropNulls)
	nValues := series.Len()
	if c.dropNulls {
		nValues -= series.NullCount()
	}
	tb := &Tabulation{
		name:        name,
		keys:        keys,
		counts:      counts,
		categorical: series.DType() == frames.Categorical,
		nValues:     nValues,
		nDistinct:   len(keys),
	}
	if err := tb.validate(); err != nil {
		return nil, err
	}
	return tb, nil
}

// FromCounts returns a Tabulation of precomputed `counts` for `keys`, which must be in ascending order
// apart from null keys. NValues is the sum of the counts.
func FromCounts(name string, keys []frames.Element, counts []int) (*Tabulation, error) {
	if len(keys) != len(counts) {
		return nil, fmt.Errorf("FromCounts(): keys and counts must have the same length (%d != %d)", len(keys), len(counts))
	}
	tb := &Tabulation{
		name:      name,
		keys:      append([]frames.Element{}, keys...),
		counts:    append([]int{}, counts...),
		nValues:   sum(counts),
		nDistinct: len(keys),
	}
	if err := tb.validate(); err != nil {
		return nil, err
	}
	return tb, nil
}

// validate checks that the non-null keys are strictly increasing.
// Categorical keys are ordered by category rather than by value and are not checked.
func (tb *Tabulation) validate() error {
	if tb.categorical {
		return nil
	}
	var prev interface{}
	for _, key := range tb.keys {
		if key.IsNull {
			continue
		}
		if prev != nil {
			cmp, err := compare(prev, key.Val)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrNotMonotonic, err)
			}
			if cmp >= 0 {
				return fmt.Errorf("%w: %v is followed by %v", ErrNotMonotonic, prev, key.Val)
			}
		}
		prev = key.Val
	}
	return nil
}

func compare(a, b interface{}) (int, error) {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return compareOrdered(x < y, x > y), nil
		}
	case int64:
		if y, ok := b.(int64); ok {
			return compareOrdered(x < y, x > y), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return compareOrdered(x < y, x > y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareOrdered(!x && y, x && !y), nil
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return compareOrdered(x.Before(y), x.After(y)), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

func compareOrdered(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

func sum(counts []int) int {
	var ret int
	for _, n := range counts {
		ret += n
	}
	return ret
}

func keyString(val interface{}) string {
	if val == nil {
		return nullKey
	}
	if e, ok := val.(frames.Element); ok {
		if e.IsNull {
			return nullKey
		}
		val = e.Val
	}
	switch v := val.(type) {
	case float64:
		if math.IsNaN(v) {
			return nullKey
		}
		if v == 0 {
			val = 0.0
		}
	case time.Time:
		val = v.UTC()
	}
	return fmt.Sprint(val)
}

// Name returns the name of the tabulated data set.
func (tb *Tabulation) Name() string {
	return tb.name
}

// Keys returns the distinct values, in order. The null bucket, if any, is an Element with IsNull set.
func (tb *Tabulation) Keys() []frames.Element {
	return append([]frames.Element{}, tb.keys...)
}

// Counts returns the number of occurrences of each key, in key order.
func (tb *Tabulation) Counts() []int {
	return append([]int{}, tb.counts...)
}

// Count returns the number of occurrences of `key`; nil selects the null bucket.
func (tb *Tabulation) Count(key interface{}) (int, bool) {
	want := keyString(key)
	for k := range tb.keys {
		if keyString(tb.keys[k]) == want {
			return tb.counts[k], true
		}
	}
	return 0, false
}

// NValues returns the number of values tabulated.
func (tb *Tabulation) NValues() int {
	return tb.nValues
}

// NDistinct returns the number of keys.
func (tb *Tabulation) NDistinct() int {
	return tb.nDistinct
}

// IsCategorical reports whether the keys are the categories of a categorical Series.
func (tb *Tabulation) IsCategorical() bool {
	return tb.categorical
}

// Rates returns each count divided by NValues, in key order. Computed once per Tabulation.
func (tb *Tabulation) Rates() []float64 {
	tb.ratesOnce.Do(func() {
		tb.rates = make([]float64, len(tb.counts))
		for k, n := range tb.counts {
			tb.rates[k] = float64(n) / float64(tb.nValues)
		}
	})
	return append([]float64{}, tb.rates...)
}

// Select returns a new Tabulation restricted to the `keep` keys, in their original order; nil selects the null bucket.
// NValues of the result is the sum of the retained counts and NDistinct the number of distinct keys requested.
// For categorical tabulations the categories shrink to the requested non-null keys.
// Fails with ErrMissingKeys, naming them, if any key in `keep` was never observed.
func (tb *Tabulation) Select(keep ...interface{}) (*Tabulation, error) {
	wanted := make(map[string]bool, len(keep))
	for _, key := range keep {
		wanted[keyString(key)] = true
	}
	ret := &Tabulation{
		name:        tb.name,
		keys:        make([]frames.Element, 0, len(wanted)),
		counts:      make([]int, 0, len(wanted)),
		categorical: tb.categorical,
	}
	found := make(map[string]bool, len(wanted))
	for k, key := range tb.keys {
		s := keyString(key)
		if !wanted[s] {
			continue
		}
		found[s] = true
		ret.keys = append(ret.keys, key)
		ret.counts = append(ret.counts, tb.counts[k])
	}
	var missing []string
	for _, key := range keep {
		if s := keyString(key); !found[s] {
			if s == nullKey {
				s = "<null>"
			}
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingKeys, missing)
	}
	ret.nValues = sum(ret.counts)
	ret.nDistinct = len(ret.keys)
	return ret, nil
}

// String renders the keys, counts and rates as a table.
func (tb *Tabulation) String() string {
	name := tb.name
	if name == "" {
		name = "value"
	}
	rates := tb.Rates()
	rows := make([][]string, len(tb.keys))
	for k, key := range tb.keys {
		label := fmt.Sprint(key.Val)
		if key.IsNull {
			label = "n/a"
		}
		rows[k] = []string{label, strconv.Itoa(tb.counts[k]), strconv.FormatFloat(rates[k], 'f', 4, 64)}
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{name, "count", "rate"})
	table.AppendBulk(rows)
	table.Render()
	return buf.String() + fmt.Sprintf("n_values: %d, n_distinct: %d\n", tb.nValues, tb.nDistinct)
}
