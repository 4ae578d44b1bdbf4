package frames

import (
	"fmt"
	"reflect"
)

// NewSeries creates a new Series named `name` from a supported slice (see NewDataFrame for the supported types).
func NewSeries(slice interface{}, name string) *Series {
	vc, err := makeValueContainerFromInterface(slice, name)
	if err != nil {
		return seriesWithError(fmt.Errorf("NewSeries(): %v", err))
	}
	return &Series{values: vc}
}

// Copy returns a new Series with identical values as the original but no shared objects.
func (s *Series) Copy() *Series {
	if s.err != nil {
		return seriesWithError(s.err)
	}
	return &Series{values: s.values.copy()}
}

// ToDataFrame converts a Series to a single-column DataFrame with default labels.
func (s *Series) ToDataFrame() *DataFrame {
	if s.err != nil {
		return dataFrameWithError(s.err)
	}
	return &DataFrame{
		values: []*valueContainer{s.values.copy()},
		labels: []*valueContainer{makeDefaultLabels(0, s.Len())},
	}
}

// -- GETTERS

func (s *Series) String() string {
	if s.err != nil {
		return fmt.Sprintf("Error: %v", s.err)
	}
	return s.ToDataFrame().String()
}

// Err returns the most recent error attached to the Series, if any.
func (s *Series) Err() error {
	return s.err
}

// Name returns the name of the Series.
func (s *Series) Name() string {
	if s.values == nil {
		return ""
	}
	return s.values.name
}

// SetName sets the name of the Series and returns the entire Series.
func (s *Series) SetName(name string) *Series {
	if s.values != nil {
		s.values.name = name
	}
	return s
}

// Len returns the number of rows in the Series.
func (s *Series) Len() int {
	if s.values == nil {
		return 0
	}
	return s.values.len()
}

// DType returns the DType of the Series values.
func (s *Series) DType() DType {
	return s.values.dtype()
}

// At returns the Element at the index position. If index is out of range, returns an empty Element.
// Categorical values are returned as their category string.
func (s *Series) At(index int) Element {
	if index < 0 || index >= s.Len() {
		return Element{}
	}
	return s.values.iterRow(index)
}

// IsNull reports whether the value at the index position is null.
func (s *Series) IsNull(index int) bool {
	return s.values.isNull[index]
}

// GetNulls returns a copy of the null mask of the Series.
func (s *Series) GetNulls() []bool {
	ret := make([]bool, s.Len())
	copy(ret, s.values.isNull)
	return ret
}

// NullCount returns the number of null values in the Series.
func (s *Series) NullCount() int {
	var n int
	for _, isNull := range s.values.isNull {
		if isNull {
			n++
		}
	}
	return n
}

// GetValues returns a copy of the underlying values as an interface{}.
// Categorical Series return their []int codes.
func (s *Series) GetValues() interface{} {
	v := reflect.ValueOf(s.values.slice)
	vals := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(vals, v)
	return vals.Interface()
}

// GetValuesFloat64 coerces the Series values into []float64. Nulls become NaN.
func (s *Series) GetValuesFloat64() []float64 {
	return s.values.float().slice
}

// GetValuesString coerces the Series values into []string. Nulls become "NaN".
func (s *Series) GetValuesString() []string {
	return s.values.str().slice
}

// Categories returns the ordered categories of a categorical Series, or nil otherwise.
func (s *Series) Categories() []string {
	if s.values.categories == nil {
		return nil
	}
	ret := make([]string, len(s.values.categories))
	copy(ret, s.values.categories)
	return ret
}

// Codes returns the category codes of a categorical Series (-1 == null), or nil otherwise.
func (s *Series) Codes() []int {
	if s.values.categories == nil {
		return nil
	}
	codes := s.values.slice.([]int)
	ret := make([]int, len(codes))
	copy(ret, codes)
	return ret
}

// -- TRANSFORMERS

// Cast returns a new Series with values converted to `dtype`.
// See DataFrame.Cast for the conversion rules.
func (s *Series) Cast(dtype DType) *Series {
	if s.err != nil {
		return s
	}
	vc, err := s.values.cast(dtype)
	if err != nil {
		return seriesWithError(fmt.Errorf("Cast(): %w", err))
	}
	return &Series{values: vc}
}

// SetCategories returns a new categorical Series encoded against exactly `categories`.
// Values outside `categories` become null.
func (s *Series) SetCategories(categories []string) *Series {
	if s.err != nil {
		return s
	}
	return &Series{values: s.values.setCategories(categories)}
}

// Subset returns only the rows specified at the index positions, in the order specified.
func (s *Series) Subset(index []int) *Series {
	s = s.Copy()
	if s.err != nil {
		return s
	}
	if err := s.values.subsetRows(index); err != nil {
		return seriesWithError(fmt.Errorf("Subset(): %v", err))
	}
	return s
}

// Mask applies `lambda` to every value and returns a Bool Series of the results, with the same name.
// Values are coerced to the type of the first field selected in `lambda`. Null values yield false.
func (s *Series) Mask(lambda FilterFn) *Series {
	if s.err != nil {
		return s
	}
	ret := make([]bool, s.Len())
	switch {
	case lambda.Float64 != nil:
		d := s.values.float()
		for i := range ret {
			ret[i] = !d.isNull[i] && lambda.Float64(d.slice[i])
		}
	case lambda.String != nil:
		d := s.values.str()
		for i := range ret {
			ret[i] = !d.isNull[i] && lambda.String(d.slice[i])
		}
	case lambda.DateTime != nil:
		d := s.values.dateTime()
		for i := range ret {
			ret[i] = !d.isNull[i] && lambda.DateTime(d.slice[i])
		}
	default:
		return seriesWithError(fmt.Errorf("Mask(): no filter function provided"))
	}
	return &Series{values: &valueContainer{slice: ret, isNull: make([]bool, len(ret)), name: s.values.name}}
}

// ValueCounts returns the distinct values of the Series in ascending order with the number of times each occurs.
// Categorical Series return every category in category order, including those that never occur.
// Unless `dropNull` is true, rows with null values are counted as a final Element with IsNull set,
// which is omitted when there are none.
func (s *Series) ValueCounts(dropNull bool) ([]Element, []int) {
	vc := s.values
	keys := make([]Element, 0)
	counts := make([]int, 0)
	if vc.categories != nil {
		for _, category := range vc.categories {
			keys = append(keys, Element{Val: category})
			counts = append(counts, 0)
		}
		for _, code := range vc.slice.([]int) {
			if code >= 0 {
				counts[code]++
			}
		}
	} else {
		firsts, groups := vc.distinctSorted()
		for _, i := range firsts {
			keys = append(keys, vc.iterRow(i))
			counts = append(counts, 0)
		}
		for _, group := range groups {
			if group >= 0 {
				counts[group]++
			}
		}
	}
	if nulls := s.NullCount(); !dropNull && nulls > 0 {
		keys = append(keys, Element{IsNull: true})
		counts = append(counts, nulls)
	}
	return keys, counts
}
