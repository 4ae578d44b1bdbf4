package frames

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/olekukonko/tablewriter"
	"github.com/ptiger10/tablediff"
)

// ReadOptionHeaders configures a read function to expect `n` rows to be column headers (default: 1).
// Multiple header rows are joined with the level separator.
func ReadOptionHeaders(n int) ReadOption {
	return func(r *readConfig) {
		r.numHeaderRows = n
	}
}

// ReadOptionLabels configures a read function to expect the first `n` columns to be label levels (default: 0).
func ReadOptionLabels(n int) ReadOption {
	return func(r *readConfig) {
		r.numLabelLevels = n
	}
}

// ReadOptionDelimiter configures a read function to use `sep` as a field delimiter (default: ",").
func ReadOptionDelimiter(sep rune) ReadOption {
	return func(r *readConfig) {
		r.delimiter = sep
	}
}

func setReadConfig(options []ReadOption) *readConfig {
	config := &readConfig{
		numHeaderRows:  1,
		numLabelLevels: 0,
		delimiter:      ',',
	}
	for _, option := range options {
		option(config)
	}
	return config
}

// ReadCSV reads csv data from `r` into a DataFrame (configured by `options`).
// Available options: ReadOptionHeaders, ReadOptionLabels, ReadOptionDelimiter.
//
// Default if no options are supplied:
// 1 header row, no labels, "," as delimiter.
//
// Each column is read as the narrowest DType that parses every non-null value,
// trying Int64, Float64, Bool, DateTime and finally String.
// Integer columns with null values are read as Float64.
// If no label levels are read, a default label level is inserted.
func ReadCSV(r io.Reader, options ...ReadOption) (*DataFrame, error) {
	config := setReadConfig(options)
	reader := csv.NewReader(r)
	reader.Comma = config.delimiter
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV(): %v", err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("ReadCSV(): must have at least one row and one column")
	}
	if len(records) < config.numHeaderRows {
		return nil, fmt.Errorf("ReadCSV(): fewer rows (%d) than header rows (%d)", len(records), config.numHeaderRows)
	}
	numCols := len(records[0])
	if config.numLabelLevels > numCols {
		return nil, fmt.Errorf("ReadCSV(): fewer columns (%d) than label levels (%d)", numCols, config.numLabelLevels)
	}
	numRows := len(records) - config.numHeaderRows
	columns := make([][]string, numCols)
	names := make([]string, numCols)
	for k := range columns {
		columns[k] = make([]string, numRows)
		headers := make([]string, config.numHeaderRows)
		for l := range headers {
			headers[l] = records[l][k]
		}
		names[k] = strings.Join(headers, optionLevelSeparator)
	}
	for i := range records[config.numHeaderRows:] {
		for k := range records[config.numHeaderRows+i] {
			columns[k][i] = records[config.numHeaderRows+i][k]
		}
	}
	var labels, values []*valueContainer
	for k := range columns {
		vc := inferContainer(columns[k])
		if k < config.numLabelLevels {
			vc.name = names[k]
			if config.numHeaderRows == 0 || vc.name == "" {
				vc.name = defaultNamePrefix + strconv.Itoa(k)
			}
			labels = append(labels, vc)
			continue
		}
		vc.name = names[k]
		if config.numHeaderRows == 0 {
			vc.name = strconv.Itoa(k - config.numLabelLevels)
		}
		values = append(values, vc)
	}
	if len(labels) == 0 {
		labels = []*valueContainer{makeDefaultLabels(0, numRows)}
	}
	return &DataFrame{labels: labels, values: values}, nil
}

// inferContainer converts a column of csv fields into the narrowest container type that represents every non-null field.
func inferContainer(fields []string) *valueContainer {
	isNull := make([]bool, len(fields))
	var numNulls int
	for i := range fields {
		isNull[i] = isNullString(fields[i])
		if isNull[i] {
			numNulls++
		}
	}
	if numNulls == len(fields) {
		return &valueContainer{slice: fields, isNull: isNull}
	}
	parsesAll := func(parse func(string) error) bool {
		for i := range fields {
			if isNull[i] {
				continue
			}
			if parse(fields[i]) != nil {
				return false
			}
		}
		return true
	}
	vc := &valueContainer{slice: fields, isNull: isNull}
	switch {
	case parsesAll(func(s string) error { _, err := strconv.ParseInt(s, 10, 64); return err }):
		if numNulls == 0 {
			ret, _ := vc.cast(Int64)
			return ret
		}
		ret, _ := vc.cast(Float64)
		return ret
	case parsesAll(func(s string) error { _, err := strconv.ParseFloat(s, 64); return err }):
		ret, _ := vc.cast(Float64)
		return ret
	case numNulls == 0 && parsesAll(func(s string) error { _, err := strconv.ParseBool(s); return err }):
		ret, _ := vc.cast(Bool)
		return ret
	case parsesAll(func(s string) error { _, err := dateparse.ParseAny(s); return err }):
		ret, _ := vc.cast(DateTime)
		return ret
	}
	return vc
}

// ToCSV converts a DataFrame to a [][]string with rows as the major dimension.
// The first row holds the container names. Null values are replaced with "n/a".
// If `includeLabels` is true, then the DataFrame's labels are written as the leftmost columns.
func (df *DataFrame) ToCSV(includeLabels bool) [][]string {
	if df.err != nil {
		return nil
	}
	containers := df.values
	if includeLabels {
		containers = append(append([]*valueContainer{}, df.labels...), df.values...)
	}
	ret := make([][]string, df.Len()+1)
	ret[0] = listNames(containers)
	for i := 1; i < len(ret); i++ {
		ret[i] = make([]string, len(containers))
	}
	for k := range containers {
		vals := containers[k].str().slice
		for i := range vals {
			if containers[k].isNull[i] {
				ret[i+1][k] = "n/a"
				continue
			}
			ret[i+1][k] = vals[i]
		}
	}
	return ret
}

// WriteCSV writes the DataFrame to `w` as csv (see ToCSV).
func (df *DataFrame) WriteCSV(w io.Writer, includeLabels bool) error {
	if df.err != nil {
		return fmt.Errorf("WriteCSV(): %w", df.err)
	}
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(df.ToCSV(includeLabels)); err != nil {
		return fmt.Errorf("WriteCSV(): %v", err)
	}
	return nil
}

// EqualsCSV converts a DataFrame to csv, compares it to `want`, and evaluates whether the two match.
// If `includeLabels` is true, then the DataFrame's labels are included as columns.
// If they do not match, returns a tablediff.Differences object that can be printed to isolate their differences.
func (df *DataFrame) EqualsCSV(want [][]string, includeLabels bool) (bool, *tablediff.Differences, error) {
	if df.err != nil {
		return false, nil, fmt.Errorf("EqualsCSV(): %w", df.err)
	}
	if len(want) == 0 {
		return false, nil, fmt.Errorf("EqualsCSV(): `want` cannot be empty")
	}
	numFields := len(want[0])
	for i := range want {
		if len(want[i]) != numFields {
			return false, nil, fmt.Errorf("EqualsCSV(): `want`: row %d: all rows must have same length as first row (%d != %d)",
				i, len(want[i]), numFields)
		}
	}
	diffs, eq := tablediff.Diff(df.ToCSV(includeLabels), want)
	return eq, diffs, nil
}

// String prints the DataFrame in table form, with label levels as the leftmost columns.
// Default label names are hidden. Rows beyond the max rows option are elided from the middle.
func (df *DataFrame) String() string {
	if df.err != nil {
		return fmt.Sprintf("Error: %v", df.err)
	}
	data := df.ToCSV(true)
	header, rows := data[0], data[1:]
	for j := 0; j < df.numLevels(); j++ {
		if isDefaultName(header[j]) {
			header[j] = ""
		}
	}
	if len(rows) > optionMaxRows {
		n := optionMaxRows / 2
		filler := make([]string, len(header))
		for k := range filler {
			filler[k] = "..."
		}
		rows = append(append(rows[:n:n], filler), rows[len(rows)-n:]...)
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
	ret := buf.String()
	if df.name != "" {
		ret += fmt.Sprintf("name: %v\n", df.name)
	}
	return ret
}
