package frames

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestNewSeries(t *testing.T) {
	got := NewSeries([]int32{1, 2}, "foo")
	want := &Series{values: &valueContainer{slice: []int64{1, 2}, isNull: []bool{false, false}, name: "foo"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewSeries() = %v, want %v", got, want)
	}
	if err := NewSeries(1, "foo").Err(); err == nil {
		t.Errorf("NewSeries() error = nil, want error for non-slice input")
	}
}

func TestSeries_ValueCounts(t *testing.T) {
	tests := []struct {
		name       string
		s          *Series
		dropNull   bool
		wantKeys   []Element
		wantCounts []int
	}{
		{"strings with null",
			NewSeries([]string{"c", "a", "c", ""}, "x"), false,
			[]Element{{Val: "a"}, {Val: "c"}, {IsNull: true}},
			[]int{1, 2, 1}},
		{"drop null",
			NewSeries([]string{"c", "a", "c", ""}, "x"), true,
			[]Element{{Val: "a"}, {Val: "c"}},
			[]int{1, 2}},
		{"no nulls",
			NewSeries([]int{3, 1, 3}, "x"), false,
			[]Element{{Val: int64(1)}, {Val: int64(3)}},
			[]int{1, 2}},
		{"numeric order",
			NewSeries([]float64{10, 2, math.NaN()}, "x"), false,
			[]Element{{Val: float64(2)}, {Val: float64(10)}, {IsNull: true}},
			[]int{1, 1, 1}},
		{"categorical keeps empty categories",
			NewSeries([]string{"b", "b", ""}, "x").SetCategories([]string{"b", "a"}), false,
			[]Element{{Val: "b"}, {Val: "a"}, {IsNull: true}},
			[]int{2, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, counts := tt.s.ValueCounts(tt.dropNull)
			if !reflect.DeepEqual(keys, tt.wantKeys) {
				t.Errorf("Series.ValueCounts() keys = %v, want %v", keys, tt.wantKeys)
			}
			if !reflect.DeepEqual(counts, tt.wantCounts) {
				t.Errorf("Series.ValueCounts() counts = %v, want %v", counts, tt.wantCounts)
			}
		})
	}
}

func TestSeries_Mask(t *testing.T) {
	tests := []struct {
		name   string
		s      *Series
		lambda FilterFn
		want   []bool
	}{
		{"float", NewSeries([]float64{1, 2, math.NaN()}, "a"),
			FilterFn{Float64: func(v float64) bool { return v > 1 }}, []bool{false, true, false}},
		{"string", NewSeries([]string{"foo", "bar", ""}, "a"),
			FilterFn{String: func(v string) bool { return strings.HasPrefix(v, "b") }}, []bool{false, true, false}},
		{"null never passes", NewSeries([]string{"", "x"}, "a"),
			FilterFn{String: func(v string) bool { return true }}, []bool{false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.s.Mask(tt.lambda)
			if got.DType() != Bool || got.Name() != "a" {
				t.Errorf("Series.Mask() returned %v %v, want a Bool series named a", got.DType(), got.Name())
			}
			if !reflect.DeepEqual(got.GetValues(), tt.want) {
				t.Errorf("Series.Mask() = %v, want %v", got.GetValues(), tt.want)
			}
		})
	}
	if err := NewSeries([]int{1}, "a").Mask(FilterFn{}).Err(); err == nil {
		t.Errorf("Series.Mask() error = nil, want error for empty FilterFn")
	}
}

func TestSeries_Cast(t *testing.T) {
	s := NewSeries([]string{"1", "2", "x"}, "a")
	got := s.Cast(Float64)
	if got.DType() != Float64 || got.NullCount() != 1 {
		t.Errorf("Series.Cast() = %v, want Float64 with one null", got)
	}
	obj := s.Cast(Object)
	if obj.DType() != Object || obj.At(0).Val != "1" {
		t.Errorf("Series.Cast() = %v, want Object", obj)
	}
	cat := s.Cast(Categorical)
	if want := []string{"1", "2", "x"}; !reflect.DeepEqual(cat.Categories(), want) {
		t.Errorf("Series.Cast() categories = %v, want %v", cat.Categories(), want)
	}
	if cat.At(2).Val != "x" {
		t.Errorf("Series.At() = %v, want category string x", cat.At(2).Val)
	}
}

func TestSeries_Subset(t *testing.T) {
	s := NewSeries([]string{"a", "b", "c"}, "x")
	got := s.Subset([]int{2, 0})
	if want := []string{"c", "a"}; !reflect.DeepEqual(got.GetValues(), want) {
		t.Errorf("Series.Subset() = %v, want %v", got.GetValues(), want)
	}
	if err := s.Subset([]int{3}).Err(); err == nil {
		t.Errorf("Series.Subset() error = nil, want out of range error")
	}
}
