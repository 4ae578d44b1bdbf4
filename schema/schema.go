// Package schema learns the column types and categorical encodings of a DataFrame
// and coerces other DataFrames to match them.
//
// The typical use is to capture the schema of training data and replay it on scoring data,
// so that a categorical column is encoded with the same codes in both:
//
//	s, err := schema.FromDataFrame(train)
//	...
//	scoring, err = s.Apply(scoring)
package schema

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zkurtz/pandahandler/frames"
)

var (
	// ErrInconsistentSchema is returned when the column types and categorical encodings of a Schema disagree.
	ErrInconsistentSchema = errors.New("inconsistent schema")
	// ErrIncompleteCoercion is returned when a coerced DataFrame still does not match the schema.
	ErrIncompleteCoercion = errors.New("the schema coercion failed")
)

// A Schema is the ordered column types of a DataFrame plus the categories of each categorical column.
// Every column is exactly one of categorical, numeric or other. A Schema is immutable.
type Schema struct {
	columnTypes []frames.ColumnType
	encodings   map[string][]string
}

// New returns a Schema with `columnTypes` (in column order) and the categories of every categorical column.
// Fails with ErrInconsistentSchema if a column is repeated, if a categorical column has no encoding,
// or if an encoding names a column that is missing or not categorical.
func New(columnTypes []frames.ColumnType, encodings map[string][]string) (*Schema, error) {
	s := &Schema{
		columnTypes: make([]frames.ColumnType, len(columnTypes)),
		encodings:   make(map[string][]string, len(encodings)),
	}
	copy(s.columnTypes, columnTypes)
	for col, categories := range encodings {
		s.encodings[col] = append([]string{}, categories...)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) validate() error {
	dtypes := make(map[string]frames.DType, len(s.columnTypes))
	for _, col := range s.columnTypes {
		if _, ok := dtypes[col.Name]; ok {
			return fmt.Errorf("%w: column %q is repeated", ErrInconsistentSchema, col.Name)
		}
		if col.DType < frames.Float64 || col.DType > frames.Object {
			return fmt.Errorf("%w: column %q has unknown dtype %v", ErrInconsistentSchema, col.Name, col.DType)
		}
		dtypes[col.Name] = col.DType
		if _, ok := s.encodings[col.Name]; col.DType == frames.Categorical && !ok {
			return fmt.Errorf("%w: categorical column %q has no encoding", ErrInconsistentSchema, col.Name)
		}
	}
	for col := range s.encodings {
		dtype, ok := dtypes[col]
		if !ok {
			return fmt.Errorf("%w: encoding for unknown column %q", ErrInconsistentSchema, col)
		}
		if dtype != frames.Categorical {
			return fmt.Errorf("%w: categorical and %v columns overlap (%q)", ErrInconsistentSchema, dtype, col)
		}
	}
	return nil
}

// FromDataFrame captures the column types of `df` and the categories of its categorical columns.
func FromDataFrame(df *frames.DataFrame) (*Schema, error) {
	if err := df.Err(); err != nil {
		return nil, err
	}
	encodings := make(map[string][]string)
	for _, col := range df.ListCategoricals() {
		encodings[col] = df.Categories(col)
	}
	return New(df.DTypes(), encodings)
}

// Categoricals returns the names of the categorical columns, in column order.
func (s *Schema) Categoricals() []string {
	return s.filter(func(dtype frames.DType) bool { return dtype == frames.Categorical })
}

// Numerics returns the names of the numeric columns (float, int and bool), in column order.
func (s *Schema) Numerics() []string {
	return s.filter(frames.DType.IsNumeric)
}

// Others returns the names of the columns that are neither categorical nor numeric, in column order.
func (s *Schema) Others() []string {
	return s.filter(func(dtype frames.DType) bool { return dtype != frames.Categorical && !dtype.IsNumeric() })
}

func (s *Schema) filter(keep func(frames.DType) bool) []string {
	ret := make([]string, 0)
	for _, col := range s.columnTypes {
		if keep(col.DType) {
			ret = append(ret, col.Name)
		}
	}
	return ret
}

// ColumnTypes returns the column types, in column order.
func (s *Schema) ColumnTypes() []frames.ColumnType {
	ret := make([]frames.ColumnType, len(s.columnTypes))
	copy(ret, s.columnTypes)
	return ret
}

// Encoding returns the categories of the categorical column `col`.
func (s *Schema) Encoding(col string) ([]string, bool) {
	categories, ok := s.encodings[col]
	if !ok {
		return nil, false
	}
	return append([]string{}, categories...), true
}

// Apply returns a copy of `df` coerced to the schema: other columns and numeric columns are cast to their dtypes,
// and each categorical column is encoded with exactly the schema's categories, in order.
// Values outside the categories become null.
// Cast failures, such as nulls in an int column (frames.ErrIncompatibleNullCoercion), are returned as is.
// Fails with ErrIncompleteCoercion if the resulting column types still differ from the schema,
// for example because `df` has extra columns or a different column order.
func (s *Schema) Apply(df *frames.DataFrame) (*frames.DataFrame, error) {
	if err := df.Err(); err != nil {
		return nil, err
	}
	df = df.Copy()
	for _, group := range [][]string{s.Others(), s.Numerics()} {
		casts := make(map[string]frames.DType, len(group))
		for _, col := range group {
			casts[col] = s.dtype(col)
		}
		df.InPlace().Cast(casts)
	}
	for _, col := range s.Categoricals() {
		df.InPlace().SetCategories(col, s.encodings[col])
	}
	if err := df.Err(); err != nil {
		return nil, fmt.Errorf("Apply(): %w", err)
	}
	if got := df.DTypes(); !reflect.DeepEqual(got, s.columnTypes) {
		return nil, fmt.Errorf("%w: got %v, want %v", ErrIncompleteCoercion, got, s.columnTypes)
	}
	return df, nil
}

func (s *Schema) dtype(col string) frames.DType {
	for _, c := range s.columnTypes {
		if c.Name == col {
			return c.DType
		}
	}
	return frames.Object
}

// CategorizeNonNumerics returns a copy of `df` in which every column that is neither categorical nor numeric
// is cast to categorical, with categories derived from its distinct values.
func CategorizeNonNumerics(df *frames.DataFrame) (*frames.DataFrame, error) {
	if err := df.Err(); err != nil {
		return nil, err
	}
	casts := make(map[string]frames.DType)
	for _, col := range df.DTypes() {
		if col.DType != frames.Categorical && !col.DType.IsNumeric() {
			casts[col.Name] = frames.Categorical
		}
	}
	df = df.Cast(casts)
	if err := df.Err(); err != nil {
		return nil, fmt.Errorf("CategorizeNonNumerics(): %w", err)
	}
	return df, nil
}
