package frames

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

type floatValueContainer struct {
	slice  []float64
	isNull []bool
	index  []int
}

type stringValueContainer struct {
	slice  []string
	isNull []bool
	index  []int
}

type int64ValueContainer struct {
	slice  []int64
	isNull []bool
	index  []int
}

type dateTimeValueContainer struct {
	slice  []time.Time
	isNull []bool
	index  []int
}

// nulls sort after every valid value
func (vc floatValueContainer) Less(i, j int) bool {
	if vc.isNull[i] || vc.isNull[j] {
		return !vc.isNull[i] && vc.isNull[j]
	}
	return vc.slice[i] < vc.slice[j]
}

func (vc floatValueContainer) Len() int {
	return len(vc.slice)
}

func (vc floatValueContainer) Swap(i, j int) {
	vc.slice[i], vc.slice[j] = vc.slice[j], vc.slice[i]
	vc.isNull[i], vc.isNull[j] = vc.isNull[j], vc.isNull[i]
	vc.index[i], vc.index[j] = vc.index[j], vc.index[i]
}

func (vc stringValueContainer) Less(i, j int) bool {
	if vc.isNull[i] || vc.isNull[j] {
		return !vc.isNull[i] && vc.isNull[j]
	}
	return vc.slice[i] < vc.slice[j]
}

func (vc stringValueContainer) Len() int {
	return len(vc.slice)
}

func (vc stringValueContainer) Swap(i, j int) {
	vc.slice[i], vc.slice[j] = vc.slice[j], vc.slice[i]
	vc.isNull[i], vc.isNull[j] = vc.isNull[j], vc.isNull[i]
	vc.index[i], vc.index[j] = vc.index[j], vc.index[i]
}

func (vc int64ValueContainer) Less(i, j int) bool {
	if vc.isNull[i] || vc.isNull[j] {
		return !vc.isNull[i] && vc.isNull[j]
	}
	return vc.slice[i] < vc.slice[j]
}

func (vc int64ValueContainer) Len() int {
	return len(vc.slice)
}

func (vc int64ValueContainer) Swap(i, j int) {
	vc.slice[i], vc.slice[j] = vc.slice[j], vc.slice[i]
	vc.isNull[i], vc.isNull[j] = vc.isNull[j], vc.isNull[i]
	vc.index[i], vc.index[j] = vc.index[j], vc.index[i]
}

func (vc dateTimeValueContainer) Less(i, j int) bool {
	if vc.isNull[i] || vc.isNull[j] {
		return !vc.isNull[i] && vc.isNull[j]
	}
	return vc.slice[i].Before(vc.slice[j])
}

func (vc dateTimeValueContainer) Len() int {
	return len(vc.slice)
}

func (vc dateTimeValueContainer) Swap(i, j int) {
	vc.slice[i], vc.slice[j] = vc.slice[j], vc.slice[i]
	vc.isNull[i], vc.isNull[j] = vc.isNull[j], vc.isNull[i]
	vc.index[i], vc.index[j] = vc.index[j], vc.index[i]
}

// converters

func convertStringToFloat(val string, originalBool bool) (float64, bool) {
	parsedVal, err := strconv.ParseFloat(val, 64)
	if err == nil {
		return parsedVal, originalBool
	}
	return math.NaN(), true
}

func convertBoolToFloat(val bool) float64 {
	if val {
		return 1
	}
	return 0
}

func convertStringToDateTime(val string) (time.Time, bool) {
	parsedVal, err := dateparse.ParseAny(val)
	if err == nil {
		return parsedVal, false
	}
	return time.Time{}, true
}

// float always returns newly allocated values and null flags.
func (vc *valueContainer) float() floatValueContainer {
	n := vc.len()
	newVals := make([]float64, n)
	isNull := make([]bool, n)
	copy(isNull, vc.isNull)
	switch arr := vc.slice.(type) {
	case []float64:
		copy(newVals, arr)
	case []int64:
		for i := range arr {
			newVals[i] = float64(arr[i])
		}
	case []bool:
		for i := range arr {
			newVals[i] = convertBoolToFloat(arr[i])
		}
	case []string:
		for i := range arr {
			newVals[i], isNull[i] = convertStringToFloat(arr[i], isNull[i])
		}
	case []int:
		// categorical codes: convert the category behind each code
		for i := range arr {
			if arr[i] < 0 {
				newVals[i], isNull[i] = math.NaN(), true
				continue
			}
			newVals[i], isNull[i] = convertStringToFloat(vc.categories[arr[i]], isNull[i])
		}
	case []interface{}:
		for i := range arr {
			switch v := arr[i].(type) {
			case string:
				newVals[i], isNull[i] = convertStringToFloat(v, isNull[i])
			case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
				newVals[i] = toFloat64(v)
			case bool:
				newVals[i] = convertBoolToFloat(v)
			default:
				newVals[i], isNull[i] = math.NaN(), true
			}
		}
	default:
		// datetimes have no float representation
		for i := range newVals {
			newVals[i], isNull[i] = math.NaN(), true
		}
	}
	for i := range newVals {
		if isNull[i] {
			newVals[i] = math.NaN()
		}
	}
	return floatValueContainer{
		isNull: isNull,
		slice:  newVals,
		index:  makeIntRange(0, n),
	}
}

// str always returns newly allocated values and null flags. Null values are rendered as "NaN".
func (vc *valueContainer) str() stringValueContainer {
	n := vc.len()
	newVals := make([]string, n)
	isNull := make([]bool, n)
	copy(isNull, vc.isNull)
	switch arr := vc.slice.(type) {
	case []string:
		copy(newVals, arr)
	case []time.Time:
		for i := range arr {
			newVals[i] = arr[i].Format(time.RFC3339Nano)
		}
	case []int:
		if vc.categories != nil {
			for i := range arr {
				if arr[i] >= 0 {
					newVals[i] = vc.categories[arr[i]]
				}
			}
			break
		}
		for i := range arr {
			newVals[i] = fmt.Sprint(arr[i])
		}
	default:
		d := reflect.ValueOf(vc.slice)
		for i := 0; i < d.Len(); i++ {
			newVals[i] = fmt.Sprint(d.Index(i).Interface())
		}
	}
	for i := range newVals {
		if isNull[i] {
			newVals[i] = "NaN"
		}
	}
	return stringValueContainer{
		slice:  newVals,
		isNull: isNull,
		index:  makeIntRange(0, n),
	}
}

// dateTime always returns newly allocated values and null flags.
func (vc *valueContainer) dateTime() dateTimeValueContainer {
	n := vc.len()
	newVals := make([]time.Time, n)
	isNull := make([]bool, n)
	copy(isNull, vc.isNull)
	switch arr := vc.slice.(type) {
	case []time.Time:
		copy(newVals, arr)
	case []string:
		for i := range arr {
			if isNull[i] {
				continue
			}
			newVals[i], isNull[i] = convertStringToDateTime(arr[i])
		}
	case []interface{}:
		for i := range arr {
			switch v := arr[i].(type) {
			case string:
				newVals[i], isNull[i] = convertStringToDateTime(v)
			case time.Time:
				newVals[i] = v
			default:
				isNull[i] = true
			}
		}
	default:
		if vc.categories != nil {
			codes := vc.slice.([]int)
			for i := range codes {
				if codes[i] < 0 {
					isNull[i] = true
					continue
				}
				newVals[i], isNull[i] = convertStringToDateTime(vc.categories[codes[i]])
			}
			break
		}
		for i := range newVals {
			isNull[i] = true
		}
	}
	for i := range newVals {
		if isNull[i] {
			newVals[i] = time.Time{}
		}
	}
	return dateTimeValueContainer{
		isNull: isNull,
		slice:  newVals,
		index:  makeIntRange(0, n),
	}
}

// fitsInt64 reports whether x truncates to an int64 without overflow.
func fitsInt64(x float64) bool {
	return !math.IsInf(x, 0) && x < math.MaxInt64 && x >= math.MinInt64
}

// nonNullable casts to a DType that cannot represent nulls, such as Int64 or Bool.
// Nulls in the original container are an ErrIncompatibleNullCoercion;
// values that become null during conversion are an ErrUnparseableValue.
func (vc *valueContainer) nonNullable(dtype DType, failed []bool) error {
	for i := range failed {
		if !failed[i] {
			continue
		}
		if vc.isNull[i] {
			return fmt.Errorf("%w: %v (%s -> %s)", ErrIncompatibleNullCoercion, vc.name, vc.dtype(), dtype)
		}
		return fmt.Errorf("%w: %v row %d (%q -> %s)", ErrUnparseableValue, vc.name, i, fmt.Sprint(vc.iterRow(i).Val), dtype)
	}
	return nil
}

// cast returns a new container holding the values of vc converted to dtype.
// If vc already has the requested dtype, returns a copy.
func (vc *valueContainer) cast(dtype DType) (*valueContainer, error) {
	if vc.dtype() == dtype {
		return vc.copy(), nil
	}
	ret := &valueContainer{name: vc.name}
	switch dtype {
	case Float64:
		d := vc.float()
		ret.slice, ret.isNull = d.slice, d.isNull
	case String:
		d := vc.str()
		ret.slice, ret.isNull = d.slice, d.isNull
	case DateTime:
		d := vc.dateTime()
		ret.slice, ret.isNull = d.slice, d.isNull
	case Int64:
		d := vc.float()
		failed := make([]bool, len(d.slice))
		for i := range d.slice {
			failed[i] = d.isNull[i] || !fitsInt64(d.slice[i])
		}
		if err := vc.nonNullable(dtype, failed); err != nil {
			return nil, err
		}
		vals := make([]int64, len(d.slice))
		for i := range d.slice {
			vals[i] = int64(d.slice[i])
		}
		ret.slice, ret.isNull = vals, make([]bool, len(vals))
	case Bool:
		vals, failed := vc.boolean()
		if err := vc.nonNullable(dtype, failed); err != nil {
			return nil, err
		}
		ret.slice, ret.isNull = vals, make([]bool, len(vals))
	case Categorical:
		return vc.categorical(), nil
	case Object:
		vals := make([]interface{}, vc.len())
		for i := range vals {
			vals[i] = vc.iterRow(i).Val
			if vc.isNull[i] {
				vals[i] = nil
			}
		}
		isNull := make([]bool, len(vals))
		copy(isNull, vc.isNull)
		ret.slice, ret.isNull = vals, isNull
	default:
		return nil, fmt.Errorf("unsupported dtype (%v)", dtype)
	}
	return ret, nil
}

// boolean returns the values as []bool plus a flag for each row that could not be converted.
func (vc *valueContainer) boolean() ([]bool, []bool) {
	n := vc.len()
	vals := make([]bool, n)
	failed := make([]bool, n)
	if arr, ok := vc.slice.([]string); ok {
		for i := range arr {
			b, err := strconv.ParseBool(arr[i])
			vals[i], failed[i] = b, err != nil || vc.isNull[i]
		}
		return vals, failed
	}
	d := vc.float()
	for i := range d.slice {
		vals[i], failed[i] = d.slice[i] != 0, d.isNull[i]
	}
	return vals, failed
}

// categorical encodes vc against the distinct non-null values it contains, ordered by the original dtype.
func (vc *valueContainer) categorical() *valueContainer {
	if vc.categories != nil {
		return vc.copy()
	}
	strs := vc.str().slice
	firsts, groups := vc.distinctSorted()
	categories := make([]string, len(firsts))
	for k, i := range firsts {
		categories[k] = strs[i]
	}
	isNull := make([]bool, len(groups))
	for i := range groups {
		isNull[i] = groups[i] < 0
	}
	return &valueContainer{slice: groups, isNull: isNull, name: vc.name, categories: categories}
}

// encodeCategories codes every value against `categories`. Values outside `categories` become null (code -1).
func encodeCategories(name string, strs []string, isNull []bool, categories []string) *valueContainer {
	positions := make(map[string]int, len(categories))
	for k, category := range categories {
		positions[category] = k
	}
	codes := make([]int, len(strs))
	retIsNull := make([]bool, len(strs))
	for i := range strs {
		code, ok := positions[strs[i]]
		if isNull[i] || !ok {
			codes[i], retIsNull[i] = -1, true
			continue
		}
		codes[i] = code
	}
	retCategories := make([]string, len(categories))
	copy(retCategories, categories)
	return &valueContainer{
		slice:      codes,
		isNull:     retIsNull,
		name:       name,
		categories: retCategories,
	}
}

// setCategories re-encodes vc against a fixed list of categories, casting it to categorical first if required.
func (vc *valueContainer) setCategories(categories []string) *valueContainer {
	return encodeCategories(vc.name, vc.str().slice, vc.isNull, categories)
}

// distinctSorted returns the row positions of the first occurrence of each distinct non-null value, in ascending value order,
// and the position in that list of every row (-1 for nulls).
// Rows belong together when compare finds them equal, so 0 and -0 or one instant in two time zones are a single value.
func (vc *valueContainer) distinctSorted() (firsts []int, groups []int) {
	order := vc.sort(vc.dtype(), true, makeIntRange(0, vc.len()))
	firsts = make([]int, 0)
	groups = make([]int, vc.len())
	for _, i := range order {
		if vc.isNull[i] {
			groups[i] = -1
			continue
		}
		if len(firsts) == 0 || vc.compare(firsts[len(firsts)-1], i) != 0 {
			firsts = append(firsts, i)
		}
		groups[i] = len(firsts) - 1
	}
	return firsts, groups
}
