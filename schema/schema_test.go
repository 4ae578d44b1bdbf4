package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkurtz/pandahandler/frames"
)

func trainingFrame() *frames.DataFrame {
	return frames.NewDataFrame([]interface{}{
		[]int{1, 2, 3},
		[]string{"x", "y", ""},
		[]float64{1, 2, 3},
	}).SetColNames([]string{"a", "b", "c"})
}

func TestSchema_Apply(t *testing.T) {
	df := trainingFrame()
	s, err := FromDataFrame(df)
	require.NoError(t, err)

	target := frames.NewDataFrame([]interface{}{
		[]float64{4, 5, math.NaN()},
		[]string{"y", "", "z"},
		[]int{1, 2, 3},
	}).SetColNames([]string{"a", "b", "c"})
	_, err = s.Apply(target)
	assert.True(t, errors.Is(err, frames.ErrIncompatibleNullCoercion))

	target = target.WithCol("a", []int{4, 5, 6})
	coerced, err := s.Apply(target)
	require.NoError(t, err)
	assert.Equal(t, df.DTypes(), coerced.DTypes())

	categorized, err := CategorizeNonNumerics(df)
	require.NoError(t, err)
	s, err = FromDataFrame(categorized)
	require.NoError(t, err)
	coerced, err = s.Apply(target)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, -1}, coerced.Codes("b"))
	assert.Equal(t, []string{"x", "y"}, coerced.Categories("b"))
	assert.Equal(t, frames.String, target.DTypes()[1].DType)
}

func TestSchema_Apply_incomplete(t *testing.T) {
	s, err := FromDataFrame(trainingFrame())
	require.NoError(t, err)

	_, err = s.Apply(trainingFrame().WithCol("d", []int{1, 2, 3}))
	assert.True(t, errors.Is(err, ErrIncompleteCoercion))

	_, err = s.Apply(trainingFrame().DropCol("c"))
	assert.True(t, errors.Is(err, frames.ErrContainerNotFound))
}

func TestSchema_partition(t *testing.T) {
	df := frames.NewDataFrame([]interface{}{
		[]string{"p", "q"},
		[]bool{true, false},
		[]string{"u", "v"},
		[]float64{1, 2},
	}).SetColNames([]string{"cat", "flag", "text", "num"}).
		Cast(map[string]frames.DType{"cat": frames.Categorical})
	s, err := FromDataFrame(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, s.Categoricals())
	assert.Equal(t, []string{"flag", "num"}, s.Numerics())
	assert.Equal(t, []string{"text"}, s.Others())

	categories, ok := s.Encoding("cat")
	assert.True(t, ok)
	assert.Equal(t, []string{"p", "q"}, categories)
	_, ok = s.Encoding("text")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		columns   []frames.ColumnType
		encodings map[string][]string
		wantErr   error
	}{
		{"pass", []frames.ColumnType{{Name: "a", DType: frames.Categorical}, {Name: "b", DType: frames.Int64}},
			map[string][]string{"a": {"x"}}, nil},
		{"no encodings", []frames.ColumnType{{Name: "b", DType: frames.String}}, nil, nil},
		{"repeated column", []frames.ColumnType{{Name: "b", DType: frames.String}, {Name: "b", DType: frames.Int64}},
			nil, ErrInconsistentSchema},
		{"missing encoding", []frames.ColumnType{{Name: "a", DType: frames.Categorical}}, nil, ErrInconsistentSchema},
		{"numeric encoding", []frames.ColumnType{{Name: "b", DType: frames.Int64}},
			map[string][]string{"b": {"1"}}, ErrInconsistentSchema},
		{"unknown column", []frames.ColumnType{{Name: "b", DType: frames.Int64}},
			map[string][]string{"z": {"1"}}, ErrInconsistentSchema},
		{"unknown dtype", []frames.ColumnType{{Name: "b", DType: frames.DType(99)}}, nil, ErrInconsistentSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns, tt.encodings)
			assert.True(t, errors.Is(err, tt.wantErr), "New() error = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestSchema_MarshalBinary(t *testing.T) {
	categorized, err := CategorizeNonNumerics(trainingFrame())
	require.NoError(t, err)
	s, err := FromDataFrame(categorized)
	require.NoError(t, err)

	data, err := s.MarshalBinary()
	require.NoError(t, err)
	var got Schema
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, s.ColumnTypes(), got.ColumnTypes())
	assert.Equal(t, s.Categoricals(), got.Categoricals())
	categories, _ := got.Encoding("b")
	assert.Equal(t, []string{"x", "y"}, categories)

	assert.Error(t, got.UnmarshalBinary(nil))
	assert.Error(t, got.UnmarshalBinary([]byte("not a schema")))
}
