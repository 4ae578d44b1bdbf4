package categoricals

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkurtz/pandahandler/frames"
)

func TestInferCategoricals(t *testing.T) {
	df := frames.NewDataFrame([]interface{}{
		[]string{"siamese", "little", "persian"},
		[]string{"2021-01-01", "", "2021-01-02"},
		[]int{1, 2, 3},
		[]bool{true, false, true},
	}).SetColNames([]string{"cats", "timestamp", "numeric", "flag"})
	assert.Equal(t, []string{"cats", "timestamp", "flag"}, InferCategoricals(df))
}

func TestEncoder_basic(t *testing.T) {
	training := frames.NewDataFrame([]interface{}{
		[]string{"red", "red", "black"},
		[]string{"liter", "", "meter"},
		[]int{1, 2, 3},
	}).SetColNames([]string{"color", "unit", "numbers"})
	encoder := NewEncoder()
	require.NoError(t, encoder.Fit(training))
	assert.Equal(t, []string{"color", "unit"}, encoder.Columns())

	got, err := encoder.Transform(training)
	require.NoError(t, err)
	assert.Equal(t, []frames.ColumnType{
		{Name: "color", DType: frames.Categorical},
		{Name: "unit", DType: frames.Categorical},
		{Name: "numbers", DType: frames.Int64},
	}, got.DTypes())
	assert.Equal(t, []int{1, 1, 0}, got.Codes("color"))
	assert.Equal(t, []int{0, -1, 1}, got.Codes("unit"))
	assert.Equal(t, frames.String, training.DTypes()[0].DType)

	unit, ok := encoder.SeriesEncoder("unit")
	require.True(t, ok)
	assert.True(t, unit.HasSeenNull())
	assert.Equal(t, []string{"liter", "meter"}, unit.Categories())

	assert.True(t, errors.Is(encoder.Fit(training), ErrAlreadyFitted))
}

func TestEncoder_unseenValues(t *testing.T) {
	training := frames.NewDataFrame([]interface{}{
		[]string{"red", "red", "black"},
		[]string{"liter", "", "meter"},
	}).SetColNames([]string{"color", "unit"})
	encoder := NewEncoder("color")
	require.NoError(t, encoder.Fit(training))

	pred := frames.NewDataFrame([]interface{}{
		[]string{"grey", ""},
		[]string{"meter", "liter"},
	}).SetColNames([]string{"color", "unit"})
	got, err := encoder.Transform(pred)
	require.NoError(t, err)
	assert.Equal(t, []int{2, -1}, got.Codes("color"))
	assert.Equal(t, []string{"black", "red", "grey"}, got.Categories("color"))
	assert.Equal(t, frames.String, got.DTypes()[1].DType)

	got, err = encoder.Transform(frames.NewDataFrame([]interface{}{[]string{"grey", "red"}}).
		SetColNames([]string{"color"}))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, got.Codes("color"))

	_, err = encoder.Transform(frames.NewDataFrame([]interface{}{[]string{"x"}}).SetColNames([]string{"unit"}))
	assert.True(t, errors.Is(err, frames.ErrContainerNotFound))
}

func TestEncoder_notFitted(t *testing.T) {
	_, err := NewEncoder("color").Transform(frames.NewDataFrame([]interface{}{[]string{"x"}}))
	assert.True(t, errors.Is(err, ErrNotFitted))
}

func TestSeriesEncoder_Encode(t *testing.T) {
	enc, err := FitSeries(frames.NewSeries([]string{"b", "a"}, "x"))
	require.NoError(t, err)
	assert.False(t, enc.HasSeenNull())

	got, err := enc.Encode(frames.NewSeries([]string{"z", "a", "c", ""}, "x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "z"}, got.Categories())
	assert.Equal(t, []int{3, 0, 2, -1}, got.Codes())
	assert.Equal(t, "x", got.Name())
}
