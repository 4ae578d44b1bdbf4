package frames

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	data := "a,b,c,d,e\n" +
		"1,x,2020-01-01,true,1.5\n" +
		"2,,2020-01-02,false,\n"
	df, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	want := []ColumnType{
		{Name: "a", DType: Int64},
		{Name: "b", DType: String},
		{Name: "c", DType: DateTime},
		{Name: "d", DType: Bool},
		{Name: "e", DType: Float64},
	}
	if got := df.DTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("ReadCSV() dtypes = %v, want %v", got, want)
	}
	if !df.HasDefaultLabels() {
		t.Errorf("ReadCSV() did not insert default labels")
	}
	if got := df.NullCols(); !reflect.DeepEqual(got, []string{"b", "e"}) {
		t.Errorf("ReadCSV() null columns = %v, want [b e]", got)
	}
}

func TestReadCSV_options(t *testing.T) {
	data := "k;v\n" +
		"x;1\n" +
		"y;\n"
	df, err := ReadCSV(strings.NewReader(data), ReadOptionDelimiter(';'), ReadOptionLabels(1))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := df.ListLabelNames(); !reflect.DeepEqual(got, []string{"k"}) {
		t.Errorf("ReadCSV() labels = %v, want [k]", got)
	}
	// integers with nulls are read as floats
	if got := df.DTypes(); !reflect.DeepEqual(got, []ColumnType{{Name: "v", DType: Float64}}) {
		t.Errorf("ReadCSV() dtypes = %v", got)
	}

	noHeader, err := ReadCSV(strings.NewReader("1,foo\n2,bar\n"), ReadOptionHeaders(0))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := noHeader.ListColNames(); !reflect.DeepEqual(got, []string{"0", "1"}) {
		t.Errorf("ReadCSV() columns = %v, want [0 1]", got)
	}
	if noHeader.Len() != 2 {
		t.Errorf("ReadCSV() Len() = %d, want 2", noHeader.Len())
	}
}

func TestReadCSV_errors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Errorf("ReadCSV() error = nil, want error for empty input")
	}
	if _, err := ReadCSV(strings.NewReader("a\n1\n"), ReadOptionLabels(2)); err == nil {
		t.Errorf("ReadCSV() error = nil, want error for too many label levels")
	}
}

func TestDataFrame_ToCSV(t *testing.T) {
	df := NewDataFrame([]interface{}{[]float64{1, 2.5}, []string{"foo", ""}}, []string{"x", "y"}).
		SetColNames([]string{"a", "b"}).SetLabelNames([]string{"k"})
	want := [][]string{{"k", "a", "b"}, {"x", "1", "foo"}, {"y", "2.5", "n/a"}}
	if got := df.ToCSV(true); !reflect.DeepEqual(got, want) {
		t.Errorf("DataFrame.ToCSV() = %v, want %v", got, want)
	}
	eq, _, err := df.EqualsCSV([][]string{{"a", "b"}, {"1", "foo"}, {"2.5", "bar"}}, false)
	if err != nil {
		t.Fatalf("DataFrame.EqualsCSV() error = %v", err)
	}
	if eq {
		t.Errorf("DataFrame.EqualsCSV() = true, want differences")
	}
	if _, _, err := df.EqualsCSV([][]string{{"a", "b"}, {"1"}}, false); err == nil {
		t.Errorf("DataFrame.EqualsCSV() error = nil, want ragged input error")
	}

	var buf bytes.Buffer
	if err := df.WriteCSV(&buf, false); err != nil {
		t.Fatalf("DataFrame.WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "a,b\n1,foo\n2.5,n/a\n" {
		t.Errorf("DataFrame.WriteCSV() = %q", got)
	}
	roundTrip, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := roundTrip.NullCols(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("ReadCSV() null columns = %v, want [b]", got)
	}
}

func TestDataFrame_String(t *testing.T) {
	df := NewDataFrame([]interface{}{[]string{"foo", "bar"}}).SetColNames([]string{"a"}).SetName("baz")
	got := df.String()
	for _, want := range []string{"foo", "bar", "a", "name: baz"} {
		if !strings.Contains(got, want) {
			t.Errorf("DataFrame.String() = %v, missing %q", got, want)
		}
	}
	if strings.Contains(got, "*0") {
		t.Errorf("DataFrame.String() printed the default label name")
	}

	defer SetOptionMaxRows(optionMaxRows)
	SetOptionMaxRows(4)
	long := NewDataFrame([]interface{}{makeIntRange(0, 10)})
	if !strings.Contains(long.String(), "...") {
		t.Errorf("DataFrame.String() did not elide rows beyond the max")
	}
}
