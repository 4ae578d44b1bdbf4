package frames

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestDataFrame_ToArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	day := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	df := NewDataFrame([]interface{}{
		[]float64{1, math.NaN()},
		[]int{1, 2},
		[]string{"b", ""},
		[]time.Time{day, {}},
		[]bool{true, false},
	}, []string{"x", "y"}).
		SetColNames([]string{"f", "i", "c", "t", "b"}).
		SetLabelNames([]string{"key"}).
		SetCategories("c", []string{"a", "b"})

	rec, err := df.ToArrow(mem)
	if err != nil {
		t.Fatalf("DataFrame.ToArrow() error = %v", err)
	}
	defer rec.Release()
	if rec.NumCols() != 6 || rec.NumRows() != 2 {
		t.Fatalf("DataFrame.ToArrow() shape = %dx%d, want 2x6", rec.NumRows(), rec.NumCols())
	}
	if rec.Schema().Field(3).Type.ID() != arrow.DICTIONARY {
		t.Errorf("DataFrame.ToArrow() categorical type = %v, want dictionary", rec.Schema().Field(3).Type)
	}

	got, err := FromArrow(rec)
	if err != nil {
		t.Fatalf("FromArrow() error = %v", err)
	}
	if !reflect.DeepEqual(got.ListLabelNames(), []string{"key"}) {
		t.Errorf("FromArrow() labels = %v, want [key]", got.ListLabelNames())
	}
	if !reflect.DeepEqual(got.DTypes(), df.DTypes()) {
		t.Errorf("FromArrow() dtypes = %v, want %v", got.DTypes(), df.DTypes())
	}
	if !reflect.DeepEqual(got.Codes("c"), []int{1, -1}) || !reflect.DeepEqual(got.Categories("c"), []string{"a", "b"}) {
		t.Errorf("FromArrow() categorical = %v %v", got.Codes("c"), got.Categories("c"))
	}
	if !reflect.DeepEqual(got.NullCols(), []string{"f", "c", "t"}) {
		t.Errorf("FromArrow() null columns = %v, want [f c t]", got.NullCols())
	}
	if tm := got.At(0, 3).Val.(time.Time); !tm.Equal(day) {
		t.Errorf("FromArrow() time = %v, want %v", tm, day)
	}
}

func TestDataFrame_ToArrow_defaultLabels(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := NewDataFrame([]interface{}{[]int{1, 2}}).SetColNames([]string{"a"})
	rec, err := df.ToArrow(mem)
	if err != nil {
		t.Fatalf("DataFrame.ToArrow() error = %v", err)
	}
	defer rec.Release()
	if rec.NumCols() != 1 {
		t.Errorf("DataFrame.ToArrow() wrote %d fields, want default labels to be dropped", rec.NumCols())
	}
	got, err := FromArrow(rec)
	if err != nil {
		t.Fatalf("FromArrow() error = %v", err)
	}
	if !reflect.DeepEqual(got, df) {
		t.Errorf("FromArrow() = %v, want %v", got, df)
	}
}

func TestFromArrow_nullStrings(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	bldr := array.NewStringBuilder(mem)
	defer bldr.Release()
	bldr.AppendValues([]string{"a", "", "n/a"}, nil)
	bldr.AppendNull()
	col := bldr.NewArray()
	defer col.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true}}, nil)
	rec := array.NewRecordBatch(schema, []arrow.Array{col}, 4)
	defer rec.Release()

	got, err := FromArrow(rec)
	if err != nil {
		t.Fatalf("FromArrow() error = %v", err)
	}
	want := NewDataFrame([]interface{}{[]string{"a", "", "n/a", ""}}).SetColNames([]string{"s"})
	if !reflect.DeepEqual(got.Col("s").GetNulls(), want.Col("s").GetNulls()) {
		t.Errorf("FromArrow() nulls = %v, want %v", got.Col("s").GetNulls(), want.Col("s").GetNulls())
	}
}
