package frames

import (
	"fmt"
	"sort"
)

// -- CONSTRUCTORS

// NewDataFrame creates a new DataFrame with `slices` (akin to column values) and optional `labels`.
// `Slices` must be comprised of supported slices, and each `label` must be a supported slice or *Series.
//
// If no `labels` are supplied, a default label level is inserted ([]int64 incrementing from 0).
// Columns are named sequentially (e.g., 0, 1, etc) by default.
// Label levels are named *n (e.g., *0, *1, etc) by default, and default names count as unnamed.
// A *Series keeps its own name, if it has one.
// `slices` may be nil when `labels` are supplied, in which case the DataFrame has labels but no columns.
//
// Supported slice types: all variants of []float, []int, & []uint,
// []string, []bool, []time.Time, []interface{}, and *Series.
// Integer variants are stored as []int64 and []float32 as []float64.
// []interface{} is narrowed to a concrete type where possible (e.g., []interface{}{1, 2, nil} becomes a float64 column).
func NewDataFrame(slices []interface{}, labels ...interface{}) *DataFrame {
	if len(slices) == 0 && len(labels) == 0 {
		return dataFrameWithError(fmt.Errorf("NewDataFrame(): `slices` and `labels` cannot both be empty"))
	}
	values, err := makeValueContainersFromInterfaces(slices, false)
	if err != nil {
		return dataFrameWithError(fmt.Errorf("NewDataFrame(): `slices`: %v", err))
	}
	retLabels, err := makeValueContainersFromInterfaces(labels, true)
	if err != nil {
		return dataFrameWithError(fmt.Errorf("NewDataFrame(): `labels`: %v", err))
	}
	if len(retLabels) == 0 {
		retLabels = append(retLabels, makeDefaultLabels(0, values[0].len()))
	}
	numRows := retLabels[0].len()
	for _, vc := range append(append([]*valueContainer{}, retLabels...), values...) {
		if vc.len() != numRows {
			return dataFrameWithError(fmt.Errorf(
				"NewDataFrame(): all slices must have the same length (%v has %d rows, expected %d)", vc.name, vc.len(), numRows))
		}
	}
	return &DataFrame{values: values, labels: retLabels}
}

// Copy returns a new DataFrame with identical values as the original but no shared objects
// (i.e., all internals are newly allocated).
func (df *DataFrame) Copy() *DataFrame {
	if df.err != nil {
		return dataFrameWithError(df.err)
	}
	return &DataFrame{
		values: copyContainers(df.values),
		labels: copyContainers(df.labels),
		name:   df.name,
	}
}

// -- GETTERS

// Err returns the most recent error attached to the DataFrame, if any.
func (df *DataFrame) Err() error {
	return df.err
}

// Len returns the number of rows in the DataFrame.
func (df *DataFrame) Len() int {
	if len(df.labels) == 0 {
		return 0
	}
	return df.labels[0].len()
}

// Empty reports whether the DataFrame has no rows.
func (df *DataFrame) Empty() bool {
	return df.Len() == 0
}

// numLevels returns the number of label columns in the DataFrame.
func (df *DataFrame) numLevels() int {
	return len(df.labels)
}

func (df *DataFrame) numColumns() int {
	return len(df.values)
}

// At returns the Element at the `row` and `column` index positions.
// If `row` or `column` is out of range, returns an empty Element.
func (df *DataFrame) At(row, column int) Element {
	if row >= df.Len() || column >= df.numColumns() {
		return Element{}
	}
	return df.values[column].iterRow(row)
}

// ListColNames returns the name of all the columns in the DataFrame, in order.
func (df *DataFrame) ListColNames() []string {
	return listNames(df.values)
}

// ListLabelNames returns the name of all the label levels in the DataFrame, in order.
// Unnamed levels have names beginning with "*".
func (df *DataFrame) ListLabelNames() []string {
	return listNames(df.labels)
}

// DTypes returns the name and DType of every column, in order.
func (df *DataFrame) DTypes() []ColumnType {
	return listTypes(df.values)
}

// LabelDTypes returns the name and DType of every label level, in order.
func (df *DataFrame) LabelDTypes() []ColumnType {
	return listTypes(df.labels)
}

// ListCategoricals returns the names of the categorical columns.
func (df *DataFrame) ListCategoricals() []string {
	var ret []string
	for _, col := range df.DTypes() {
		if col.DType == Categorical {
			ret = append(ret, col.Name)
		}
	}
	return ret
}

// ListNumerics returns the names of the numeric columns.
func (df *DataFrame) ListNumerics() []string {
	var ret []string
	for _, col := range df.DTypes() {
		if col.DType.IsNumeric() {
			ret = append(ret, col.Name)
		}
	}
	return ret
}

// HasCols returns an error if the DataFrame does not contain all of the `colNames` supplied.
func (df *DataFrame) HasCols(colNames ...string) error {
	for _, name := range colNames {
		_, err := findContainerWithName(name, df.values)
		if err != nil {
			return fmt.Errorf("HasCols(): %w", err)
		}
	}
	return nil
}

// HasDefaultLabels reports whether the DataFrame has a single unnamed label level counting up from 0,
// i.e. no meaningful labels at all.
func (df *DataFrame) HasDefaultLabels() bool {
	return df.numLevels() == 1 && df.labels[0].isDefaultLabels()
}

// NullLabelLevels returns the names of the label levels that contain at least one null value.
// Each level is inspected separately.
func (df *DataFrame) NullLabelLevels() []string {
	var ret []string
	for _, lvl := range df.labels {
		if lvl.hasNulls() {
			ret = append(ret, lvl.name)
		}
	}
	return ret
}

// NullCols returns the names of the columns that contain at least one null value.
func (df *DataFrame) NullCols() []string {
	var ret []string
	for _, col := range df.values {
		if col.hasNulls() {
			ret = append(ret, col.name)
		}
	}
	return ret
}

// LabelsAreUnique reports whether every row has a distinct combination of label values.
// Values are compared as their DType, so 0 and -0 are the same label. Two null values are equal.
func (df *DataFrame) LabelsAreUnique() bool {
	if df.Len() == 0 {
		return true
	}
	order := makeIntRange(0, df.Len())
	sort.SliceStable(order, func(a, b int) bool {
		return compareRows(df.labels, order[a], order[b]) < 0
	})
	for k := 1; k < len(order); k++ {
		if compareRows(df.labels, order[k-1], order[k]) == 0 {
			return false
		}
	}
	return true
}

// LabelsAreSorted reports whether the rows are in non-decreasing order of their labels,
// compared level by level. Any null label value means the labels are not sorted.
func (df *DataFrame) LabelsAreSorted() bool {
	if len(df.NullLabelLevels()) > 0 {
		return false
	}
	for i := 1; i < df.Len(); i++ {
		if compareRows(df.labels, i-1, i) > 0 {
			return false
		}
	}
	return true
}

// Col returns the first column matching `name` as a Series.
func (df *DataFrame) Col(name string) *Series {
	index, err := findContainerWithName(name, df.values)
	if err != nil {
		return seriesWithError(fmt.Errorf("Col(): %w", err))
	}
	return &Series{values: df.values[index].copy()}
}

// SelectLabels returns the first label level matching `name` as a Series.
func (df *DataFrame) SelectLabels(name string) *Series {
	index, err := findContainerWithName(name, df.labels)
	if err != nil {
		return seriesWithError(fmt.Errorf("SelectLabels(): %w", err))
	}
	return &Series{values: df.labels[index].copy()}
}

// Name returns the name of the DataFrame.
func (df *DataFrame) Name() string {
	return df.name
}

// -- SETTERS

// InPlace returns a DataFrameMutator, which contains most of the same methods as DataFrame
// but never returns a new DataFrame.
// If you want to save memory and improve performance and do not need to preserve the original DataFrame,
// consider using InPlace().
func (df *DataFrame) InPlace() *DataFrameMutator {
	return &DataFrameMutator{dataframe: df}
}

// SetName sets the name of a DataFrame and returns the entire DataFrame.
func (df *DataFrame) SetName(name string) *DataFrame {
	df.name = name
	return df
}

// SetLabelNames sets the names of all the label levels in the DataFrame and returns the entire DataFrame.
func (df *DataFrame) SetLabelNames(levelNames []string) *DataFrame {
	if df.err != nil {
		return df
	}
	if len(levelNames) != len(df.labels) {
		return dataFrameWithError(
			fmt.Errorf("SetLabelNames(): number of `levelNames` must match number of levels in DataFrame (%d != %d)", len(levelNames), len(df.labels)))
	}
	for j := range levelNames {
		df.labels[j].name = levelNames[j]
	}
	return df
}

// SetColNames sets the names of all the columns in the DataFrame and returns the entire DataFrame.
func (df *DataFrame) SetColNames(colNames []string) *DataFrame {
	if df.err != nil {
		return df
	}
	if len(colNames) != len(df.values) {
		return dataFrameWithError(
			fmt.Errorf("SetColNames(): number of `colNames` must match number of columns in DataFrame (%d != %d)",
				len(colNames), len(df.values)))
	}
	for k := range colNames {
		df.values[k].name = colNames[k]
	}
	return df
}

// Subset returns only the rows specified at the index positions, in the order specified.
// Returns a new DataFrame.
func (df *DataFrame) Subset(index []int) *DataFrame {
	df = df.Copy()
	df.InPlace().Subset(index)
	return df
}

// Subset returns only the rows specified at the index positions, in the order specified.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) Subset(index []int) {
	if df.dataframe.err != nil {
		return
	}
	for _, containers := range [][]*valueContainer{df.dataframe.labels, df.dataframe.values} {
		for k := range containers {
			if err := containers[k].subsetRows(index); err != nil {
				df.dataframe.resetWithError(fmt.Errorf("Subset(): %v", err))
				return
			}
		}
	}
}

// DropNull removes rows with a null value in any column.
// If `subset` is supplied, removes any rows with null values in any of the specified columns.
// Returns a new DataFrame.
func (df *DataFrame) DropNull(subset ...string) *DataFrame {
	df = df.Copy()
	df.InPlace().DropNull(subset...)
	return df
}

// DropNull removes rows with a null value in any column.
// If `subset` is supplied, removes any rows with null values in any of the specified columns.
// Modifies the underlying DataFrame.
func (df *DataFrameMutator) DropNull(subset ...string) {
	if df.dataframe.err != nil {
		return
	}
	var index []int
	if len(subset) == 0 {
		index = makeIntRange(0, len(df.dataframe.values))
	} else {
		for _, name := range subset {
			i, err := findContainerWithName(name, df.dataframe.values)
			if err != nil {
				df.dataframe.resetWithError(fmt.Errorf("DropNull(): %w", err))
				return
			}
			index = append(index, i)
		}
	}
	if len(index) == 0 {
		return
	}
	subIndexes := make([][]int, len(index))
	for k, i := range index {
		subIndexes[k] = df.dataframe.values[i].valid()
	}
	allValid := intersection(subIndexes, df.dataframe.Len())
	df.Subset(allValid)
}

// FilterByMask returns the rows for which `mask` is true.
// `mask` must have one entry per row.
// Returns a new DataFrame.
func (df *DataFrame) FilterByMask(mask []bool) *DataFrame {
	df = df.Copy()
	df.InPlace().FilterByMask(mask)
	return df
}

// FilterByMask keeps the rows for which `mask` is true.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) FilterByMask(mask []bool) {
	if df.dataframe.err != nil {
		return
	}
	if len(mask) != df.dataframe.Len() {
		df.dataframe.resetWithError(fmt.Errorf("FilterByMask(): mask must have one value per row (%d != %d)",
			len(mask), df.dataframe.Len()))
		return
	}
	index := make([]int, 0)
	for i := range mask {
		if mask[i] {
			index = append(index, i)
		}
	}
	df.Subset(index)
}

// WithCol resolves as follows:
//
// If a column exists that matches `name`: replace the values at this column to match `input`.
// If a column does not exist that matches `name`: append a new column named `name` and values matching `input`.
// `input` must be a slice or *Series with the same length as the underlying DataFrame.
//
// Returns a new DataFrame.
func (df *DataFrame) WithCol(name string, input interface{}) *DataFrame {
	df = df.Copy()
	df.InPlace().WithCol(name, input)
	return df
}

// WithCol replaces or appends the column `name`. Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) WithCol(name string, input interface{}) {
	if df.dataframe.err != nil {
		return
	}
	vc, err := makeValueContainerFromInterface(input, name)
	if err != nil {
		df.dataframe.resetWithError(fmt.Errorf("WithCol(): %v", err))
		return
	}
	vc.name = name
	if vc.len() != df.dataframe.Len() {
		df.dataframe.resetWithError(fmt.Errorf("WithCol(): input must have same length as DataFrame (%d != %d)",
			vc.len(), df.dataframe.Len()))
		return
	}
	if k, err := findContainerWithName(name, df.dataframe.values); err == nil {
		df.dataframe.values[k] = vc
		return
	}
	df.dataframe.values = append(df.dataframe.values, vc)
}

// DropCol drops the first column matching `name`.
// Returns a new DataFrame.
func (df *DataFrame) DropCol(name string) *DataFrame {
	df = df.Copy()
	df.InPlace().DropCol(name)
	return df
}

// DropCol drops the first column matching `name`.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) DropCol(name string) {
	if df.dataframe.err != nil {
		return
	}
	k, err := findContainerWithName(name, df.dataframe.values)
	if err != nil {
		df.dataframe.resetWithError(fmt.Errorf("DropCol(): %w", err))
		return
	}
	df.dataframe.values = append(df.dataframe.values[:k], df.dataframe.values[k+1:]...)
}

// Relabel resets the DataFrame labels to default labels (e.g., []int64 from 0 to df.Len()-1, with *0 as name).
// The existing labels are discarded.
// Returns a new DataFrame.
func (df *DataFrame) Relabel() *DataFrame {
	df = df.Copy()
	df.InPlace().Relabel()
	return df
}

// Relabel resets the DataFrame labels to default labels.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) Relabel() {
	if df.dataframe.err != nil {
		return
	}
	df.dataframe.labels = []*valueContainer{makeDefaultLabels(0, df.dataframe.Len())}
}

// SetLabels moves the column(s) supplied as `colNames` into label levels, in the order supplied.
// A single unnamed label level (such as the default labels) is replaced;
// otherwise the new levels are appended after the existing ones.
// Returns a new DataFrame.
func (df *DataFrame) SetLabels(colNames ...string) *DataFrame {
	df = df.Copy()
	df.InPlace().SetLabels(colNames...)
	return df
}

// SetLabels moves the column(s) supplied as `colNames` into label levels.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) SetLabels(colNames ...string) {
	if df.dataframe.err != nil {
		return
	}
	if len(colNames) == 0 {
		df.dataframe.resetWithError(fmt.Errorf("SetLabels(): must supply at least one column name"))
		return
	}
	levels := make([]*valueContainer, 0, len(colNames))
	for _, name := range colNames {
		k, err := findContainerWithName(name, df.dataframe.values)
		if err != nil {
			df.dataframe.resetWithError(fmt.Errorf("SetLabels(): %w", err))
			return
		}
		levels = append(levels, df.dataframe.values[k])
		df.dataframe.values = append(df.dataframe.values[:k], df.dataframe.values[k+1:]...)
	}
	if df.dataframe.numLevels() == 1 && isDefaultName(df.dataframe.labels[0].name) {
		df.dataframe.labels = levels
		return
	}
	df.dataframe.labels = append(df.dataframe.labels, levels...)
}

// ResetLabels moves every label level into a column and replaces the labels with default labels.
// The new columns are placed before the existing columns, in level order.
// An unnamed level becomes the column "index" (single level) or "level_<n>" (multiple levels).
// If a new column name matches an existing column, the DataFrame is returned with an ErrColumnNameCollision error.
// Returns a new DataFrame.
func (df *DataFrame) ResetLabels() *DataFrame {
	df = df.Copy()
	df.InPlace().ResetLabels()
	return df
}

// ResetLabels moves every label level into a column and replaces the labels with default labels.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) ResetLabels() {
	if df.dataframe.err != nil {
		return
	}
	existing := make(map[string]bool)
	for _, name := range df.dataframe.ListColNames() {
		existing[name] = true
	}
	numLevels := df.dataframe.numLevels()
	cols := make([]*valueContainer, 0, numLevels+df.dataframe.numColumns())
	for j, lvl := range df.dataframe.labels {
		name := resetName(lvl.name, j, numLevels)
		if existing[name] {
			df.dataframe.resetWithError(fmt.Errorf(
				"ResetLabels(): %w: a column of the existing index matches a column that already exists (%v)",
				ErrColumnNameCollision, name))
			return
		}
		existing[name] = true
		lvl.name = name
		cols = append(cols, lvl)
	}
	n := df.dataframe.Len()
	df.dataframe.values = append(cols, df.dataframe.values...)
	df.dataframe.labels = []*valueContainer{makeDefaultLabels(0, n)}
}

// Cast converts each container (column or label level) named in `containerAsType` to the paired DType.
// Casting a container with null values to Int64 or Bool fails with ErrIncompatibleNullCoercion.
// Returns a new DataFrame.
func (df *DataFrame) Cast(containerAsType map[string]DType) *DataFrame {
	df = df.Copy()
	df.InPlace().Cast(containerAsType)
	return df
}

// Cast converts each container named in `containerAsType` to the paired DType.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) Cast(containerAsType map[string]DType) {
	if df.dataframe.err != nil {
		return
	}
	names := make([]string, 0, len(containerAsType))
	for name := range containerAsType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		containers, k, err := df.dataframe.findContainer(name)
		if err != nil {
			df.dataframe.resetWithError(fmt.Errorf("Cast(): %w", err))
			return
		}
		vc, err := containers[k].cast(containerAsType[name])
		if err != nil {
			df.dataframe.resetWithError(fmt.Errorf("Cast(): %w", err))
			return
		}
		containers[k] = vc
	}
}

// SetCategories encodes the container `name` as categorical with exactly `categories`, in that order.
// Values outside `categories` become null.
// Returns a new DataFrame.
func (df *DataFrame) SetCategories(name string, categories []string) *DataFrame {
	df = df.Copy()
	df.InPlace().SetCategories(name, categories)
	return df
}

// SetCategories encodes the container `name` as categorical with exactly `categories`.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) SetCategories(name string, categories []string) {
	if df.dataframe.err != nil {
		return
	}
	containers, k, err := df.dataframe.findContainer(name)
	if err != nil {
		df.dataframe.resetWithError(fmt.Errorf("SetCategories(): %w", err))
		return
	}
	containers[k] = containers[k].setCategories(categories)
}

// findContainer looks up `name` among the label levels first, then among the columns.
func (df *DataFrame) findContainer(name string) ([]*valueContainer, int, error) {
	if k, err := findContainerWithName(name, df.labels); err == nil {
		return df.labels, k, nil
	}
	k, err := findContainerWithName(name, df.values)
	if err != nil {
		return nil, 0, err
	}
	return df.values, k, nil
}

// -- SORTERS

// Sort sorts the values `by` zero or more Sorter specifications.
// If no DType is supplied for a Sorter, sorts as float64.
// DType is only used for the process of sorting. Once it has been sorted, data retains its original type.
// Returns a new DataFrame.
func (df *DataFrame) Sort(by ...Sorter) *DataFrame {
	df = df.Copy()
	df.InPlace().Sort(by...)
	return df
}

// Sort sorts the values `by` zero or more Sorter specifications.
// Modifies the underlying DataFrame in place.
func (df *DataFrameMutator) Sort(by ...Sorter) {
	if df.dataframe.err != nil {
		return
	}
	if len(by) == 0 {
		df.dataframe.resetWithError(fmt.Errorf("Sort(): must supply at least one Sorter"))
		return
	}
	mergedLabelsAndValues := append(append([]*valueContainer{}, df.dataframe.labels...), df.dataframe.values...)
	newIndex, err := sortContainers(mergedLabelsAndValues, by)
	if err != nil {
		df.dataframe.resetWithError(fmt.Errorf("Sort(): %w", err))
		return
	}
	df.Subset(newIndex)
}

// SortByLabels sorts the rows in ascending order of every label level, each compared as its own DType.
// Returns a new DataFrame.
func (df *DataFrame) SortByLabels() *DataFrame {
	if df.err != nil {
		return df
	}
	sorters := make([]Sorter, df.numLevels())
	for j, lvl := range df.LabelDTypes() {
		sorters[j] = Sorter{Name: lvl.Name, DType: lvl.DType}
	}
	return df.Sort(sorters...)
}

// LabelLevelHasNulls reports whether the label level `name` contains at least one null value.
// Returns false if no level matches `name`.
func (df *DataFrame) LabelLevelHasNulls(name string) bool {
	k, err := findContainerWithName(name, df.labels)
	if err != nil {
		return false
	}
	return df.labels[k].hasNulls()
}

// Categories returns the ordered categories of the categorical container (label level or column) `name`.
// Returns nil if the container does not exist or is not categorical.
func (df *DataFrame) Categories(name string) []string {
	containers, k, err := df.findContainer(name)
	if err != nil || containers[k].categories == nil {
		return nil
	}
	ret := make([]string, len(containers[k].categories))
	copy(ret, containers[k].categories)
	return ret
}

// Codes returns the category codes of the categorical container `name` (-1 == null).
// Returns nil if the container does not exist or is not categorical.
func (df *DataFrame) Codes(name string) []int {
	containers, k, err := df.findContainer(name)
	if err != nil || containers[k].categories == nil {
		return nil
	}
	codes := containers[k].slice.([]int)
	ret := make([]int, len(codes))
	copy(ret, codes)
	return ret
}
