package frames

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"
)

const defaultNamePrefix = "*"

func (df *DataFrame) resetWithError(err error) {
	df.values = nil
	df.labels = nil
	df.name = ""
	df.err = err
}

func dataFrameWithError(err error) *DataFrame {
	return &DataFrame{
		err: err,
	}
}

func seriesWithError(err error) *Series {
	return &Series{
		err: err,
	}
}

func isSlice(input interface{}) bool {
	return input != nil && reflect.TypeOf(input).Kind() == reflect.Slice
}

// isDefaultName reports whether a container name was generated rather than supplied by the user.
func isDefaultName(name string) bool {
	return strings.HasPrefix(name, defaultNamePrefix)
}

func makeValueContainerFromInterface(slice interface{}, name string) (*valueContainer, error) {
	if s, ok := slice.(*Series); ok {
		if s.err != nil {
			return nil, s.err
		}
		vc := s.values.copy()
		if vc.name == "" {
			vc.name = name
		}
		return vc, nil
	}
	if !isSlice(slice) {
		if slice == nil {
			return nil, fmt.Errorf("unsupported input (nil); must be slice")
		}
		return nil, fmt.Errorf("unsupported kind (%v); must be slice", reflect.TypeOf(slice).Kind())
	}
	slice = normalizeSlice(slice)
	isNull := setNullsFromInterface(slice)
	if isNull == nil {
		return nil, fmt.Errorf("unable to calculate null values ([]%v not supported)", reflect.TypeOf(slice).Elem())
	}
	return &valueContainer{
		slice: slice, isNull: isNull, name: name,
	}, nil
}

func makeValueContainersFromInterfaces(slices []interface{}, prefixAsterisk bool) ([]*valueContainer, error) {
	var namePrefix string
	if prefixAsterisk {
		namePrefix = defaultNamePrefix
	}
	ret := make([]*valueContainer, len(slices))
	for i, slice := range slices {
		vc, err := makeValueContainerFromInterface(slice, namePrefix+fmt.Sprint(i))
		if err != nil {
			return nil, fmt.Errorf("error at position %d: %v", i, err)
		}
		ret[i] = vc
	}
	return ret, nil
}

// normalizeSlice converts every integer slice to []int64 and []float32 to []float64.
// []interface{} slices are narrowed to a single concrete type where the non-null values allow it.
func normalizeSlice(slice interface{}) interface{} {
	switch slice.(type) {
	case []int, []int8, []int16, []int32, []uint, []uint8, []uint16, []uint32, []uint64:
		v := reflect.ValueOf(slice)
		ret := make([]int64, v.Len())
		for i := range ret {
			if v.Index(i).Kind() >= reflect.Uint && v.Index(i).Kind() <= reflect.Uint64 {
				ret[i] = int64(v.Index(i).Uint())
			} else {
				ret[i] = v.Index(i).Int()
			}
		}
		return ret
	case []float32:
		arr := slice.([]float32)
		ret := make([]float64, len(arr))
		for i := range arr {
			ret[i] = float64(arr[i])
		}
		return ret
	case []interface{}:
		return inferInterfaceSlice(slice.([]interface{}))
	}
	return slice
}

// inferInterfaceSlice follows pandas' inference rules for object input:
// integers without nulls become []int64, numbers with nulls become []float64 (nulls as NaN),
// and homogeneous strings, times or non-null booleans become their typed slice.
// Anything else stays []interface{}.
func inferInterfaceSlice(vals []interface{}) interface{} {
	var numInts, numFloats, numStrings, numTimes, numBools, numNulls, numOther int
	for _, val := range vals {
		if isNullInterface(val) {
			numNulls++
			continue
		}
		switch val.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			numInts++
		case float32, float64:
			numFloats++
		case string:
			numStrings++
		case time.Time:
			numTimes++
		case bool:
			numBools++
		default:
			numOther++
		}
	}
	numValid := len(vals) - numNulls
	if numValid == 0 || numOther > 0 {
		return vals
	}
	switch numValid {
	case numInts:
		if numNulls == 0 {
			ret := make([]int64, len(vals))
			for i := range vals {
				ret[i] = toInt64(vals[i])
			}
			return ret
		}
		fallthrough
	case numInts + numFloats:
		ret := make([]float64, len(vals))
		for i := range vals {
			if isNullInterface(vals[i]) {
				ret[i] = math.NaN()
				continue
			}
			ret[i] = toFloat64(vals[i])
		}
		return ret
	case numStrings:
		ret := make([]string, len(vals))
		for i := range vals {
			if s, ok := vals[i].(string); ok {
				ret[i] = s
			}
		}
		return ret
	case numTimes:
		ret := make([]time.Time, len(vals))
		for i := range vals {
			if t, ok := vals[i].(time.Time); ok {
				ret[i] = t
			}
		}
		return ret
	case numBools:
		if numNulls == 0 {
			ret := make([]bool, len(vals))
			for i := range vals {
				ret[i] = vals[i].(bool)
			}
			return ret
		}
	}
	return vals
}

func toInt64(val interface{}) int64 {
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return int64(v.Float())
	}
	return v.Int()
}

func toFloat64(val interface{}) float64 {
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	}
	return v.Float()
}

func setNullsFromInterface(input interface{}) []bool {
	var ret []bool
	switch input.(type) {
	case []float64:
		vals := input.([]float64)
		ret = make([]bool, len(vals))
		for i := range ret {
			ret[i] = math.IsNaN(vals[i])
		}
	case []string:
		vals := input.([]string)
		ret = make([]bool, len(vals))
		for i := range ret {
			ret[i] = isNullString(vals[i])
		}
	case []time.Time:
		vals := input.([]time.Time)
		ret = make([]bool, len(vals))
		for i := range ret {
			ret[i] = vals[i].IsZero()
		}
	case []interface{}:
		vals := input.([]interface{})
		ret = make([]bool, len(vals))
		for i := range ret {
			ret[i] = isNullInterface(vals[i])
		}
	// no null value possible
	case []int64, []bool:
		ret = make([]bool, reflect.ValueOf(input).Len())
	case []Element:
		vals := input.([]Element)
		ret = make([]bool, len(vals))
		for i := range ret {
			ret[i] = vals[i].IsNull
		}
	default:
		return nil
	}
	return ret
}

func isNullInterface(i interface{}) bool {
	switch v := i.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case string:
		return isNullString(v)
	case time.Time:
		return v.IsZero()
	}
	return false
}

func isNullString(s string) bool {
	nullStrings := []string{"NaN", "n/a", "N/A", "", "nil"}
	for _, ns := range nullStrings {
		if strings.TrimSpace(s) == ns {
			return true
		}
	}
	return false
}

// makeDefaultLabels returns a valueContainer with a
// sequential series of numbers (inclusive of min, exclusive of max), a companion isNull slice, and a default name.
func makeDefaultLabels(min, max int) *valueContainer {
	labels := make([]int64, max-min)
	for i := range labels {
		labels[i] = int64(min + i)
	}
	return &valueContainer{
		slice:  labels,
		isNull: make([]bool, len(labels)),
		name:   defaultNamePrefix + "0",
	}
}

// isDefaultLabels reports whether vc is an unnamed []int64 counting up from 0 with no nulls.
func (vc *valueContainer) isDefaultLabels() bool {
	if !isDefaultName(vc.name) {
		return false
	}
	vals, ok := vc.slice.([]int64)
	if !ok {
		return false
	}
	for i := range vals {
		if vals[i] != int64(i) || vc.isNull[i] {
			return false
		}
	}
	return true
}

// makeIntRange returns a sequential series of numbers (inclusive of min, exclusive of max)
func makeIntRange(min, max int) []int {
	ret := make([]int, max-min)
	for i := range ret {
		ret[i] = min + i
	}
	return ret
}

func (vc *valueContainer) len() int {
	return len(vc.isNull)
}

func (vc *valueContainer) hasNulls() bool {
	for _, isNull := range vc.isNull {
		if isNull {
			return true
		}
	}
	return false
}

func (vc *valueContainer) dtype() DType {
	if vc.categories != nil {
		return Categorical
	}
	switch vc.slice.(type) {
	case []float64:
		return Float64
	case []int64:
		return Int64
	case []string:
		return String
	case []bool:
		return Bool
	case []time.Time:
		return DateTime
	default:
		return Object
	}
}

// findContainerWithName returns the position of the first container named `name`.
func findContainerWithName(name string, cols []*valueContainer) (int, error) {
	for k := range cols {
		if cols[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: name (%v) does not match any existing label level or column", ErrContainerNotFound, name)
}

func listNames(columns []*valueContainer) []string {
	ret := make([]string, len(columns))
	for k := range columns {
		ret[k] = columns[k].name
	}
	return ret
}

func listTypes(columns []*valueContainer) []ColumnType {
	ret := make([]ColumnType, len(columns))
	for k := range columns {
		ret[k] = ColumnType{Name: columns[k].name, DType: columns[k].dtype()}
	}
	return ret
}

// intersection returns the positions shared by every slice in `slices`, in ascending order.
func intersection(slices [][]int, length int) []int {
	counter := make([]int, length)
	for _, slice := range slices {
		for _, i := range slice {
			counter[i]++
		}
	}
	ret := make([]int, 0)
	for i := range counter {
		if counter[i] == len(slices) {
			ret = append(ret, i)
		}
	}
	return ret
}

func (vc *valueContainer) valid() []int {
	index := make([]int, 0)
	for i, isNull := range vc.isNull {
		if !isNull {
			index = append(index, i)
		}
	}
	return index
}

// subsetRows modifies vc in place to contain ony the rows specified by index.
// If any position is out of range, returns an error
func (vc *valueContainer) subsetRows(index []int) error {
	v := reflect.ValueOf(vc.slice)
	l := v.Len()
	retIsNull := make([]bool, len(index))
	retVals := reflect.MakeSlice(v.Type(), len(index), len(index))
	for indexPosition, indexValue := range index {
		if indexValue >= l || indexValue < 0 {
			return fmt.Errorf("index out of range (%d > %d)", indexValue, l-1)
		}
		retIsNull[indexPosition] = vc.isNull[indexValue]
		retVals.Index(indexPosition).Set(v.Index(indexValue))
	}
	vc.slice = retVals.Interface()
	vc.isNull = retIsNull
	return nil
}

func copyContainers(containers []*valueContainer) []*valueContainer {
	ret := make([]*valueContainer, len(containers))
	for k := range containers {
		ret[k] = containers[k].copy()
	}
	return ret
}

func (vc *valueContainer) copy() *valueContainer {
	v := reflect.ValueOf(vc.slice)
	vals := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(vals, v)
	isNull := make([]bool, len(vc.isNull))
	copy(isNull, vc.isNull)
	var categories []string
	if vc.categories != nil {
		categories = make([]string, len(vc.categories))
		copy(categories, vc.categories)
	}
	return &valueContainer{
		slice:      vals.Interface(),
		isNull:     isNull,
		name:       vc.name,
		categories: categories,
	}
}

func (vc *valueContainer) iterRow(index int) Element {
	if vc.categories != nil {
		code := vc.slice.([]int)[index]
		if code < 0 {
			return Element{Val: nil, IsNull: true}
		}
		return Element{Val: vc.categories[code], IsNull: false}
	}
	return Element{
		Val:    reflect.ValueOf(vc.slice).Index(index).Interface(),
		IsNull: vc.isNull[index],
	}
}

// compare returns -1, 0 or 1 as row i sorts before, equal to, or after row j.
// Nulls sort after every valid value.
func (vc *valueContainer) compare(i, j int) int {
	switch {
	case vc.isNull[i] && vc.isNull[j]:
		return 0
	case vc.isNull[i]:
		return 1
	case vc.isNull[j]:
		return -1
	}
	switch vc.dtype() {
	case Categorical:
		codes := vc.slice.([]int)
		return compareInts(int64(codes[i]), int64(codes[j]))
	case Float64:
		vals := vc.slice.([]float64)
		return compareFloats(vals[i], vals[j])
	case Int64:
		vals := vc.slice.([]int64)
		return compareInts(vals[i], vals[j])
	case Bool:
		vals := vc.slice.([]bool)
		return compareFloats(convertBoolToFloat(vals[i]), convertBoolToFloat(vals[j]))
	case DateTime:
		vals := vc.slice.([]time.Time)
		switch {
		case vals[i].Before(vals[j]):
			return -1
		case vals[j].Before(vals[i]):
			return 1
		}
		return 0
	default:
		return strings.Compare(fmt.Sprint(vc.iterRow(i).Val), fmt.Sprint(vc.iterRow(j).Val))
	}
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareRows compares rows i and j level by level, as compare does for a single container.
func compareRows(containers []*valueContainer, i, j int) int {
	for _, vc := range containers {
		if cmp := vc.compare(i, j); cmp != 0 {
			return cmp
		}
	}
	return 0
}

func (vc *valueContainer) sort(dtype DType, ascending bool, index []int) []int {
	var srt sort.Interface
	var sortedIsNull []bool
	var sortedIndex []int
	if vc.categories != nil {
		dtype = Categorical
	}
	if _, ok := vc.slice.([]int64); dtype == Int64 && !ok {
		dtype = Float64
	}
	switch dtype {
	case Categorical:
		codes := vc.slice.([]int)
		d := floatValueContainer{slice: make([]float64, len(codes)), isNull: make([]bool, len(codes)), index: index}
		copy(d.isNull, vc.isNull)
		for i := range codes {
			d.slice[i] = float64(codes[i])
		}
		srt = d
		sortedIsNull, sortedIndex = d.isNull, d.index
	case String, Object:
		d := vc.str()
		d.index = index
		srt = d
		sortedIsNull, sortedIndex = d.isNull, d.index
	case DateTime:
		d := vc.dateTime()
		d.index = index
		srt = d
		sortedIsNull, sortedIndex = d.isNull, d.index
	case Int64:
		vals := vc.slice.([]int64)
		d := int64ValueContainer{slice: make([]int64, len(vals)), isNull: make([]bool, len(vals)), index: index}
		copy(d.slice, vals)
		copy(d.isNull, vc.isNull)
		srt = d
		sortedIsNull, sortedIndex = d.isNull, d.index
	default:
		d := vc.float()
		d.index = index
		srt = d
		sortedIsNull, sortedIndex = d.isNull, d.index
	}
	if !ascending {
		srt = sort.Reverse(srt)
	}
	sort.Stable(srt)
	nulls := make([]int, 0)
	notNulls := make([]int, 0)
	for i := range sortedIsNull {
		if sortedIsNull[i] {
			nulls = append(nulls, sortedIndex[i])
		} else {
			notNulls = append(notNulls, sortedIndex[i])
		}
	}
	// move all null values to the bottom
	return append(notNulls, nulls...)
}

func sortContainers(containers []*valueContainer, sorters []Sorter) ([]int, error) {
	originalIndex := makeIntRange(0, containers[0].len())
	for i := len(sorters) - 1; i >= 0; i-- {
		index, err := findContainerWithName(sorters[i].Name, containers)
		if err != nil {
			return nil, fmt.Errorf("position %v: %w", i, err)
		}
		// must copy the values to be sorted to avoid prematurely overwriting underlying data
		vals := containers[index].copy()
		if err := vals.subsetRows(originalIndex); err != nil {
			return nil, err
		}
		originalIndex = vals.sort(sorters[i].DType, !sorters[i].Descending, originalIndex)
	}
	// rearranging the original data by referencing these original row positions (in sequential order) will sort the data
	return originalIndex, nil
}

// resetName converts a default label name into the column name pandas would use for it.
func resetName(name string, level, numLevels int) string {
	if !isDefaultName(name) {
		return name
	}
	if numLevels == 1 {
		return "index"
	}
	return fmt.Sprintf("level_%d", level)
}
