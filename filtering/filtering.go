// Package filtering removes rows from DataFrames with boolean masks and logs how many rows each filter drops.
//
// A mask is a Bool Series with one entry per row; true keeps the row. The same mask can be applied three ways:
//
//	mask, err := filtering.AGreaterThanOne(df)
//	out, err := filtering.ApplyMask(df, mask, "precomputed_mask")
//	out, err = filtering.ApplyMaskFunc(df, filtering.AGreaterThanOne, "mask_func")
//	out, err = filtering.AsFilter(filtering.AGreaterThanOne)(df)
package filtering

import (
	"errors"
	"fmt"

	"github.com/zkurtz/pandahandler/frames"
	"github.com/zkurtz/pandahandler/rowcount"
)

var (
	// ErrMaskNotBoolean is returned when a mask is not a Bool Series.
	ErrMaskNotBoolean = errors.New("the mask must be of boolean type")
	// ErrMaskMisaligned is returned when a mask does not have one entry per row of the DataFrame.
	ErrMaskMisaligned = errors.New("the mask must be aligned with the data frame")
)

// A MaskFunc derives a mask from a DataFrame.
type MaskFunc func(*frames.DataFrame) (*frames.Series, error)

// ApplyMask returns the rows of `df` for which `mask` is true, logged as "apply_mask:<name>".
// `options` configure the log entry as in rowcount.LogRowcountChange.
func ApplyMask(df *frames.DataFrame, mask *frames.Series, name string, options ...rowcount.Option) (*frames.DataFrame, error) {
	filter := func(df *frames.DataFrame) (*frames.DataFrame, error) {
		return applyMask(df, mask)
	}
	return rowcount.LogRowcountChange(filter, maskOptions(name, options)...)(df)
}

// ApplyMaskFunc is like ApplyMask but derives the mask from `df` with `maskFunc`.
func ApplyMaskFunc(df *frames.DataFrame, maskFunc MaskFunc, name string, options ...rowcount.Option) (*frames.DataFrame, error) {
	filter := func(df *frames.DataFrame) (*frames.DataFrame, error) {
		mask, err := maskFunc(df)
		if err != nil {
			return nil, err
		}
		return applyMask(df, mask)
	}
	return rowcount.LogRowcountChange(filter, maskOptions(name, options)...)(df)
}

func maskOptions(name string, options []rowcount.Option) []rowcount.Option {
	if name == "" {
		name = "unnamed_mask"
	}
	return append([]rowcount.Option{rowcount.WithDescription("apply_mask:" + name)}, options...)
}

// AsFilter converts `maskFunc` into a filter that keeps the rows where the mask is true.
// Each call is logged under the name of `maskFunc` unless `options` supply another description.
func AsFilter(maskFunc MaskFunc, options ...rowcount.Option) rowcount.Transform {
	filter := func(df *frames.DataFrame) (*frames.DataFrame, error) {
		mask, err := maskFunc(df)
		if err != nil {
			return nil, err
		}
		return applyMask(df, mask)
	}
	options = append([]rowcount.Option{rowcount.WithDescription(rowcount.FunctionName(maskFunc))}, options...)
	return rowcount.LogRowcountChange(filter, options...)
}

func applyMask(df *frames.DataFrame, mask *frames.Series) (*frames.DataFrame, error) {
	if err := mask.Err(); err != nil {
		return nil, err
	}
	if mask.Len() != df.Len() {
		return nil, fmt.Errorf("%w: mask has %d rows, data frame has %d", ErrMaskMisaligned, mask.Len(), df.Len())
	}
	if mask.DType() != frames.Bool {
		return nil, fmt.Errorf("%w: got %v", ErrMaskNotBoolean, mask.DType())
	}
	return df.FilterByMask(mask.GetValues().([]bool)), nil
}

// DropIfAnyNull drops the rows with a null value in any column, logged as "drop_if_any_null".
func DropIfAnyNull(df *frames.DataFrame) (*frames.DataFrame, error) {
	return rowcount.LogRowcountChange(dropNull, rowcount.WithDescription("drop_if_any_null"))(df)
}

func dropNull(df *frames.DataFrame) (*frames.DataFrame, error) {
	return df.DropNull(), nil
}

// AGreaterThanOne is an example mask: true where column "a" is greater than 1.
func AGreaterThanOne(df *frames.DataFrame) (*frames.Series, error) {
	mask := df.Col("a").Mask(frames.FilterFn{Float64: func(val float64) bool { return val > 1 }})
	if err := mask.Err(); err != nil {
		return nil, err
	}
	return mask, nil
}
