package tabulation

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkurtz/pandahandler/frames"
)

func lettersSeries() *frames.Series {
	return frames.NewSeries([]string{"a", "a", "b", "c", "c", "c", "", "", ""}, "test_name").
		Cast(frames.Categorical)
}

func TestTabulate(t *testing.T) {
	tb, err := Tabulate(lettersSeries())
	require.NoError(t, err)
	assert.Equal(t, []frames.Element{{Val: "a"}, {Val: "b"}, {Val: "c"}, {IsNull: true}}, tb.Keys())
	assert.Equal(t, []int{2, 1, 3, 3}, tb.Counts())
	assert.Equal(t, 9, tb.NValues())
	assert.Equal(t, 4, tb.NDistinct())
	assert.Equal(t, "test_name", tb.Name())
	assert.True(t, tb.IsCategorical())
	assert.InDeltaSlice(t, []float64{2.0 / 9, 1.0 / 9, 3.0 / 9, 3.0 / 9}, tb.Rates(), 1e-12)

	n, ok := tb.Count(nil)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestTabulate_equalValues(t *testing.T) {
	tb, err := Tabulate(frames.NewSeries([]float64{0, math.Copysign(0, -1), 1}, "zeros"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, tb.Counts())
	assert.Equal(t, 2, tb.NDistinct())
	n, ok := tb.Count(math.Copysign(0, -1))
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	noon := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	tb, err = Tabulate(frames.NewSeries([]time.Time{noon, noon.In(time.FixedZone("CET", 3600))}, "times"))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, tb.Counts())
	n, ok = tb.Count(noon.In(time.FixedZone("EST", -5*3600)))
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	tb, err = Tabulate(frames.NewSeries([]int64{1 << 60, 1<<60 + 1, 1 << 60}, "big"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, tb.Counts())
}

func TestTabulation_Select(t *testing.T) {
	tb, err := Tabulate(lettersSeries())
	require.NoError(t, err)
	original := tb.Rates()

	sub, err := tb.Select("a", nil)
	require.NoError(t, err)
	assert.Equal(t, []frames.Element{{Val: "a"}, {IsNull: true}}, sub.Keys())
	assert.Equal(t, []int{2, 3}, sub.Counts())
	assert.Equal(t, 5, sub.NValues())
	assert.Equal(t, 2, sub.NDistinct())
	assert.Equal(t, "test_name", sub.Name())
	assert.True(t, sub.IsCategorical())
	assert.InDeltaSlice(t, []float64{0.4, 0.6}, sub.Rates(), 1e-12)
	assert.Equal(t, original, tb.Rates())

	_, err = tb.Select("a", "z", "q")
	require.True(t, errors.Is(err, ErrMissingKeys))
	assert.Contains(t, err.Error(), "[z q]")
}

func TestTabulation_Select_sumOfCounts(t *testing.T) {
	tb, err := Tabulate(frames.NewSeries([]int{5, 1, 5, 3, 3, 5}, "x"))
	require.NoError(t, err)
	assert.Equal(t, []frames.Element{{Val: int64(1)}, {Val: int64(3)}, {Val: int64(5)}}, tb.Keys())
	for _, keep := range [][]interface{}{{1}, {3, 5}, {5, 1}, {1, 3, 5}} {
		sub, err := tb.Select(keep...)
		require.NoError(t, err)
		var want int
		for _, key := range keep {
			n, ok := tb.Count(key)
			require.True(t, ok)
			want += n
		}
		assert.Equal(t, want, sub.NValues(), "keep %v", keep)
		assert.Equal(t, len(keep), sub.NDistinct(), "keep %v", keep)
	}
}

func TestTabulate_options(t *testing.T) {
	s := frames.NewSeries([]float64{3, 1, 3, math.NaN()}, "x")
	tb, err := Tabulate(s, WithDropNulls(), WithName("renamed"))
	require.NoError(t, err)
	assert.Equal(t, []frames.Element{{Val: 1.0}, {Val: 3.0}}, tb.Keys())
	assert.Equal(t, []int{1, 2}, tb.Counts())
	assert.Equal(t, 3, tb.NValues())
	assert.Equal(t, "renamed", tb.Name())
	assert.False(t, tb.IsCategorical())

	tb, err = Tabulate(s)
	require.NoError(t, err)
	assert.Equal(t, 4, tb.NValues())
	assert.Equal(t, 3, tb.NDistinct())
	_, ok := tb.Count(math.NaN())
	assert.True(t, ok)
}

func TestTabulate_categoricalKeepsUnusedCategories(t *testing.T) {
	s := frames.NewSeries([]string{"b", "b"}, "x").SetCategories([]string{"c", "b", "a"})
	tb, err := Tabulate(s)
	require.NoError(t, err)
	assert.Equal(t, []frames.Element{{Val: "c"}, {Val: "b"}, {Val: "a"}}, tb.Keys())
	assert.Equal(t, []int{0, 2, 0}, tb.Counts())
	assert.Equal(t, 3, tb.NDistinct())
}

func TestFromCounts(t *testing.T) {
	tests := []struct {
		name    string
		keys    []frames.Element
		counts  []int
		wantErr error
	}{
		{"pass", []frames.Element{{Val: "a"}, {Val: "b"}, {IsNull: true}}, []int{1, 2, 3}, nil},
		{"decreasing", []frames.Element{{Val: "b"}, {Val: "a"}}, []int{1, 2}, ErrNotMonotonic},
		{"repeated", []frames.Element{{Val: 1.0}, {Val: 1.0}}, []int{1, 2}, ErrNotMonotonic},
		{"mixed types", []frames.Element{{Val: 1.0}, {Val: "a"}}, []int{1, 2}, ErrNotMonotonic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCounts("x", tt.keys, tt.counts)
			assert.True(t, errors.Is(err, tt.wantErr), "FromCounts() error = %v, want %v", err, tt.wantErr)
		})
	}
	tb, err := FromCounts("x", []frames.Element{{Val: "a"}}, []int{4})
	require.NoError(t, err)
	assert.Equal(t, 4, tb.NValues())
	_, err = FromCounts("x", []frames.Element{{Val: "a"}}, nil)
	assert.Error(t, err)
}

func TestTabulation_Rates_concurrent(t *testing.T) {
	tb, err := Tabulate(lettersSeries())
	require.NoError(t, err)
	var wg sync.WaitGroup
	results := make([][]float64, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tb.Rates()
		}(i)
	}
	wg.Wait()
	for i := range results {
		assert.Equal(t, results[0], results[i])
	}
}

func TestTabulation_String(t *testing.T) {
	tb, err := Tabulate(frames.NewSeries([]string{"a", "b", "b", ""}, "letters"))
	require.NoError(t, err)
	got := tb.String()
	assert.Contains(t, got, "letters")
	assert.Contains(t, got, "0.5000")
	assert.Contains(t, got, "n/a")
	assert.Contains(t, got, "n_values: 4, n_distinct: 3")
}
