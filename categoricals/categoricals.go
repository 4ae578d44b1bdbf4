// Package categoricals learns categorical encodings at fit time and replays them at transform time,
// so that a value maps to the same code in training and scoring data.
//
// Values never seen at fit time are appended as new categories rather than coded as null,
// which keeps "unseen" distinct from "missing" for models that treat null specially.
package categoricals

import (
	"errors"
	"fmt"

	"github.com/zkurtz/pandahandler/frames"
)

var (
	// ErrAlreadyFitted is returned by Fit when called a second time on the same Encoder.
	ErrAlreadyFitted = errors.New("encoder has already been fitted; create a new encoder")
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("encoder has not been fitted")
)

// A SeriesEncoder is the categories learned from one Series.
type SeriesEncoder struct {
	categories  []string
	hasSeenNull bool
}

// FitSeries learns the sorted distinct non-null values of `series` and whether it has nulls.
func FitSeries(series *frames.Series) (*SeriesEncoder, error) {
	cat := series.Cast(frames.Categorical)
	if err := cat.Err(); err != nil {
		return nil, fmt.Errorf("FitSeries(): %w", err)
	}
	return &SeriesEncoder{
		categories:  cat.Categories(),
		hasSeenNull: series.NullCount() > 0,
	}, nil
}

// Categories returns the learned categories, in code order.
func (e *SeriesEncoder) Categories() []string {
	return append([]string{}, e.categories...)
}

// HasSeenNull reports whether the fitted Series had null values.
func (e *SeriesEncoder) HasSeenNull() bool {
	return e.hasSeenNull
}

// Encode returns `series` as a categorical Series coded with the learned categories.
// Values outside the learned categories are appended as new categories, in sorted order; nulls stay null.
func (e *SeriesEncoder) Encode(series *frames.Series) (*frames.Series, error) {
	cat := series.Cast(frames.Categorical)
	if err := cat.Err(); err != nil {
		return nil, fmt.Errorf("Encode(): %w", err)
	}
	known := make(map[string]bool, len(e.categories))
	for _, category := range e.categories {
		known[category] = true
	}
	categories := append([]string{}, e.categories...)
	for _, value := range cat.Categories() {
		if !known[value] {
			categories = append(categories, value)
		}
	}
	return series.SetCategories(categories), nil
}

// An Encoder encodes several columns of a DataFrame, each with its own SeriesEncoder.
// An Encoder may be fitted only once.
type Encoder struct {
	columns  []string
	order    []string
	encoders map[string]*SeriesEncoder
}

// NewEncoder returns an Encoder for `columns`. With no columns, Fit encodes every column found by InferCategoricals.
func NewEncoder(columns ...string) *Encoder {
	return &Encoder{columns: append([]string{}, columns...)}
}

// Fit learns the categories of each encoded column of `df`.
// Fails with ErrAlreadyFitted if the Encoder has been fitted before.
func (e *Encoder) Fit(df *frames.DataFrame) error {
	if e.encoders != nil {
		return ErrAlreadyFitted
	}
	if err := df.Err(); err != nil {
		return err
	}
	columns := e.columns
	if len(columns) == 0 {
		columns = InferCategoricals(df)
	}
	encoders := make(map[string]*SeriesEncoder, len(columns))
	for _, col := range columns {
		enc, err := FitSeries(df.Col(col))
		if err != nil {
			return fmt.Errorf("Fit(): column %q: %w", col, err)
		}
		encoders[col] = enc
	}
	e.order = columns
	e.encoders = encoders
	return nil
}

// SeriesEncoder returns the encoder fitted for column `col`.
func (e *Encoder) SeriesEncoder(col string) (*SeriesEncoder, bool) {
	enc, ok := e.encoders[col]
	return enc, ok
}

// Columns returns the names of the encoded columns, in fit order.
func (e *Encoder) Columns() []string {
	return append([]string{}, e.order...)
}

// Transform returns a copy of `df` in which every fitted column is encoded as categorical.
// Other columns are left unchanged. Every fitted column must be present in `df`.
func (e *Encoder) Transform(df *frames.DataFrame) (*frames.DataFrame, error) {
	if e.encoders == nil {
		return nil, ErrNotFitted
	}
	if err := df.Err(); err != nil {
		return nil, err
	}
	df = df.Copy()
	for _, col := range e.order {
		encoded, err := e.encoders[col].Encode(df.Col(col))
		if err != nil {
			return nil, fmt.Errorf("Transform(): column %q: %w", col, err)
		}
		df.InPlace().WithCol(col, encoded)
	}
	if err := df.Err(); err != nil {
		return nil, fmt.Errorf("Transform(): %w", err)
	}
	return df, nil
}

// InferCategoricals returns the columns of `df` that are neither floats nor integers, in column order.
// Bool columns count as categorical.
func InferCategoricals(df *frames.DataFrame) []string {
	ret := make([]string, 0)
	for _, col := range df.DTypes() {
		if col.DType != frames.Float64 && col.DType != frames.Int64 {
			ret = append(ret, col.Name)
		}
	}
	return ret
}
