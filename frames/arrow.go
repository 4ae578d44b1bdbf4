package frames

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// MetadataIndexColumns is the arrow schema metadata key that lists the label levels of a DataFrame, as a JSON array.
const MetadataIndexColumns = "pandahandler.index_columns"

var categoricalType = &arrow.DictionaryType{
	IndexType: arrow.PrimitiveTypes.Int32,
	ValueType: arrow.BinaryTypes.String,
}

var timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

// ToArrow converts the DataFrame into an arrow record batch allocated from `mem`.
// Non-default label levels are written as the leading fields and their names are recorded in the
// schema metadata under MetadataIndexColumns. Categorical containers become dictionary arrays,
// and Object containers are written as strings.
// The caller must Release the returned record.
func (df *DataFrame) ToArrow(mem memory.Allocator) (arrow.RecordBatch, error) {
	if df.err != nil {
		return nil, fmt.Errorf("ToArrow(): %w", df.err)
	}
	containers := df.values
	indexNames := []string{}
	if !df.HasDefaultLabels() {
		containers = append(append([]*valueContainer{}, df.labels...), df.values...)
		indexNames = df.ListLabelNames()
	}
	encodedNames, err := json.Marshal(indexNames)
	if err != nil {
		return nil, fmt.Errorf("ToArrow(): %v", err)
	}
	fields := make([]arrow.Field, len(containers))
	cols := make([]arrow.Array, len(containers))
	defer func() {
		for _, col := range cols {
			if col != nil {
				col.Release()
			}
		}
	}()
	for k, vc := range containers {
		col, err := vc.arrow(mem)
		if err != nil {
			return nil, fmt.Errorf("ToArrow(): %v: %v", vc.name, err)
		}
		cols[k] = col
		fields[k] = arrow.Field{Name: vc.name, Type: col.DataType(), Nullable: true}
	}
	metadata := arrow.NewMetadata([]string{MetadataIndexColumns}, []string{string(encodedNames)})
	schema := arrow.NewSchema(fields, &metadata)
	return array.NewRecordBatch(schema, cols, int64(df.Len())), nil
}

func (vc *valueContainer) validMask() []bool {
	ret := make([]bool, len(vc.isNull))
	for i := range ret {
		ret[i] = !vc.isNull[i]
	}
	return ret
}

// arrow builds an arrow array holding the values of vc.
func (vc *valueContainer) arrow(mem memory.Allocator) (arrow.Array, error) {
	switch vc.dtype() {
	case Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(vc.slice.([]float64), vc.validMask())
		return b.NewArray(), nil
	case Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(vc.slice.([]int64), vc.validMask())
		return b.NewArray(), nil
	case Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(vc.slice.([]bool), vc.validMask())
		return b.NewArray(), nil
	case DateTime:
		b := array.NewTimestampBuilder(mem, timestampType)
		defer b.Release()
		for i, t := range vc.slice.([]time.Time) {
			if vc.isNull[i] {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(t.UnixNano()))
		}
		return b.NewArray(), nil
	case Categorical:
		dict := array.NewStringBuilder(mem)
		defer dict.Release()
		dict.AppendValues(vc.categories, nil)
		dictArr := dict.NewArray()
		defer dictArr.Release()
		indices := array.NewInt32Builder(mem)
		defer indices.Release()
		for _, code := range vc.slice.([]int) {
			if code < 0 {
				indices.AppendNull()
				continue
			}
			indices.Append(int32(code))
		}
		indicesArr := indices.NewArray()
		defer indicesArr.Release()
		return array.NewDictionaryArray(categoricalType, indicesArr, dictArr), nil
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(vc.str().slice, vc.validMask())
		return b.NewArray(), nil
	}
}

// FromArrow converts an arrow record batch into a DataFrame.
// Fields listed under MetadataIndexColumns become label levels, in the order listed;
// if there are none, default labels are inserted.
// Dictionary fields must have string values and become categorical columns.
// Int64 and Boolean fields with null values are read as Float64 and Object respectively.
// String values that NewDataFrame would treat as null, such as "", are null here too.
func FromArrow(rec arrow.RecordBatch) (*DataFrame, error) {
	var indexNames []string
	md := rec.Schema().Metadata()
	if i := md.FindKey(MetadataIndexColumns); i >= 0 {
		if err := json.Unmarshal([]byte(md.Values()[i]), &indexNames); err != nil {
			return nil, fmt.Errorf("FromArrow(): reading %v metadata: %v", MetadataIndexColumns, err)
		}
	}
	isIndex := make(map[string]bool, len(indexNames))
	for _, name := range indexNames {
		isIndex[name] = true
	}
	var values []*valueContainer
	labelsByName := make(map[string]*valueContainer)
	for k, field := range rec.Schema().Fields() {
		vc, err := containerFromArrow(rec.Column(k))
		if err != nil {
			return nil, fmt.Errorf("FromArrow(): field %v: %v", field.Name, err)
		}
		vc.name = field.Name
		if isIndex[field.Name] {
			labelsByName[field.Name] = vc
			continue
		}
		values = append(values, vc)
	}
	labels := make([]*valueContainer, 0, len(indexNames))
	for _, name := range indexNames {
		lvl, ok := labelsByName[name]
		if !ok {
			return nil, fmt.Errorf("FromArrow(): index column %v: %w", name, ErrContainerNotFound)
		}
		labels = append(labels, lvl)
	}
	if len(labels) == 0 {
		labels = []*valueContainer{makeDefaultLabels(0, int(rec.NumRows()))}
	}
	return &DataFrame{labels: labels, values: values}, nil
}

func containerFromArrow(col arrow.Array) (*valueContainer, error) {
	n := col.Len()
	isNull := make([]bool, n)
	for i := range isNull {
		isNull[i] = col.IsNull(i)
	}
	vc := &valueContainer{isNull: isNull}
	switch arr := col.(type) {
	case *array.Float64:
		vals := make([]float64, n)
		copy(vals, arr.Float64Values())
		for i := range vals {
			if isNull[i] {
				vals[i] = math.NaN()
			}
		}
		vc.slice = vals
	case *array.Int64:
		vals := make([]int64, n)
		copy(vals, arr.Int64Values())
		vc.slice = vals
		if col.NullN() > 0 {
			return vc.cast(Float64)
		}
	case *array.Boolean:
		vals := make([]bool, n)
		for i := range vals {
			vals[i] = arr.Value(i)
		}
		vc.slice = vals
		if col.NullN() > 0 {
			return vc.cast(Object)
		}
	case *array.String:
		vals := make([]string, n)
		for i := range vals {
			if !isNull[i] {
				vals[i] = arr.Value(i)
				isNull[i] = isNullString(vals[i])
			}
		}
		vc.slice = vals
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		vals := make([]time.Time, n)
		for i := range vals {
			if !isNull[i] {
				vals[i] = arr.Value(i).ToTime(unit)
			}
		}
		vc.slice = vals
	case *array.Dictionary:
		dict, ok := arr.Dictionary().(*array.String)
		if !ok {
			return nil, fmt.Errorf("unsupported dictionary value type (%v)", arr.Dictionary().DataType())
		}
		categories := make([]string, dict.Len())
		for k := range categories {
			categories[k] = dict.Value(k)
		}
		codes := make([]int, n)
		for i := range codes {
			if isNull[i] {
				codes[i] = -1
				continue
			}
			codes[i] = arr.GetValueIndex(i)
		}
		vc.slice, vc.categories = codes, categories
	default:
		return nil, fmt.Errorf("unsupported arrow type (%v)", col.DataType())
	}
	return vc, nil
}
