// Package frames is the in-memory table that the rest of pandahandler operates on.
//
// A DataFrame is one or more named columns with one or more aligned "label levels".
// On printing, label levels appear as the leftmost columns in a table; they identify rows
// and are analogous to the "index" concept in pandas.
// A DataFrame whose only label level is unnamed and counts up from 0 has a default (trivial) index.
//
// Every container carries its own null mask. Null values are NaN floats, the strings
// "", "NaN", "n/a", "N/A" and "nil", the zero time.Time, nil interface values and categorical code -1.
//
// Methods that return a *DataFrame never modify the receiver: they return a new DataFrame,
// or the receiver itself when nothing had to change.
// Errors are attached to the returned DataFrame and are available through Err().
// To modify a DataFrame in place, use InPlace().
package frames

import (
	"errors"
	"fmt"
	"time"
)

type valueContainer struct {
	slice  interface{}
	isNull []bool
	name   string
	// non-nil only for categorical containers, in which case slice is []int codes (-1 == null)
	categories []string
}

// A Series is a single named column of data.
type Series struct {
	values *valueContainer
	err    error
}

// A DataFrame is one or more columns of data with one or more levels of aligned labels.
type DataFrame struct {
	labels []*valueContainer
	values []*valueContainer
	name   string
	err    error
}

// A DataFrameMutator is used to change DataFrame values in place.
type DataFrameMutator struct {
	dataframe *DataFrame
}

// An Element is one value in either a Series or DataFrame.
type Element struct {
	Val    interface{}
	IsNull bool
}

// A ColumnType pairs a container name with its DType.
type ColumnType struct {
	Name  string
	DType DType
}

// A Sorter supplies details to the Sort() function.
// `Name` specifies the container (either label or column name) to sort.
// If `Descending` is true, values are sorted in descending order.
// `DType` specifies the data type to which values will be coerced before they are sorted (default: float64).
// Categorical containers always sort by category code, regardless of `DType`.
// Null values are always sorted to the bottom.
type Sorter struct {
	Name       string
	Descending bool
	DType      DType
}

// A FilterFn supplies logic to the Mask() function.
// Only the first field selected (i.e., not left nil) is used - any others are ignored.
// Values are coerced to the type specified in the field (e.g., DateTime -> time.Time) before the filter function is evaluated.
// Null values never satisfy a FilterFn.
type FilterFn struct {
	Float64  func(val float64) bool
	String   func(val string) bool
	DateTime func(val time.Time) bool
}

// DType is a DataType that may be used in Sort() or Cast().
type DType int

const (
	// Float64 -> float64
	Float64 DType = iota
	// String -> string
	String
	// DateTime -> time.Time
	DateTime
	// Int64 -> int64
	Int64
	// Bool -> bool
	Bool
	// Categorical -> integer codes into an ordered list of string categories
	Categorical
	// Object -> interface{}
	Object
)

func (dtype DType) String() string {
	switch dtype {
	case Float64:
		return "float64"
	case String:
		return "string"
	case DateTime:
		return "datetime"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	case Categorical:
		return "category"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("unknown(%d)", int(dtype))
	}
}

// IsNumeric reports whether values of this DType are numbers. As in pandas, booleans count as numeric.
func (dtype DType) IsNumeric() bool {
	switch dtype {
	case Float64, Int64, Bool:
		return true
	default:
		return false
	}
}

// ErrColumnNameCollision is returned when moving containers between labels and columns would overwrite data.
var ErrColumnNameCollision = errors.New("column name collision")

// ErrIncompatibleNullCoercion is returned when a container holding nulls is cast to a DType that cannot represent them.
var ErrIncompatibleNullCoercion = errors.New("cannot cast null values to a non-nullable dtype")

// ErrUnparseableValue is returned when a non-null value cannot be converted to the requested DType.
var ErrUnparseableValue = errors.New("value cannot be converted")

// ErrContainerNotFound is returned when no label level or column has the requested name.
var ErrContainerNotFound = errors.New("container not found")

// A ReadOption configures a read function.
// Available read options: ReadOptionHeaders, ReadOptionLabels, ReadOptionDelimiter.
type ReadOption func(*readConfig)

// A readConfig configures a read function.
// All read functions accept zero or more modifiers that alter the default read config, which is:
// 1 header row, 0 label levels, and "," as field delimiter.
type readConfig struct {
	numHeaderRows  int
	numLabelLevels int
	delimiter      rune
}
