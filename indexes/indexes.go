// Package indexes declares, validates and applies the index (label levels) of a DataFrame.
//
// An Index is declared once, typically at package level, and then used to bring any DataFrame into shape:
//
//	var userIndex = indexes.MustNew([]string{"user_id"}, indexes.Sort())
//
//	df, err := userIndex.Apply(df, indexes.WithFilterNulls())
//
// Apply is idempotent: a DataFrame that already satisfies the index is returned as is.
package indexes

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/zkurtz/pandahandler/frames"
	"github.com/zkurtz/pandahandler/rowcount"
)

// An Index describes the label levels a DataFrame should have.
// An Index is immutable once constructed and safe for concurrent use.
type Index struct {
	names         []string
	allowNull     bool
	sort          bool
	requireUnique bool
	dtypes        map[string]frames.DType
}

// An Option configures New.
type Option func(*Index)

// AllowNull permits null values in any level of the index.
func AllowNull() Option {
	return func(idx *Index) {
		idx.allowNull = true
	}
}

// Sort requires the index to be sorted in ascending order. It cannot be combined with AllowNull.
func Sort() Option {
	return func(idx *Index) {
		idx.sort = true
	}
}

// RequireUnique sets whether every row must have a distinct key (default: true).
func RequireUnique(require bool) Option {
	return func(idx *Index) {
		idx.requireUnique = require
	}
}

// WithDTypes declares the expected DType of some or all of the index levels.
func WithDTypes(dtypes map[string]frames.DType) Option {
	return func(idx *Index) {
		idx.dtypes = make(map[string]frames.DType, len(dtypes))
		for name, dtype := range dtypes {
			idx.dtypes[name] = dtype
		}
	}
}

// New returns an Index with levels `names`, in order.
// Fails with ErrInvalidIndex if `names` is empty or repeats a name,
// if Sort is combined with AllowNull, or if a dtype is declared for a name outside `names`.
func New(names []string, options ...Option) (*Index, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one name is required", ErrInvalidIndex)
	}
	idx := &Index{
		names:         append([]string{}, names...),
		requireUnique: true,
	}
	for _, option := range options {
		option(idx)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("%w: name %q is repeated", ErrInvalidIndex, name)
		}
		seen[name] = true
	}
	if idx.sort && idx.allowNull {
		return nil, fmt.Errorf("%w: sort is not allowed with allow null", ErrInvalidIndex)
	}
	for name := range idx.dtypes {
		if !seen[name] {
			return nil, fmt.Errorf("%w: dtype declared for %q, which is not an index name", ErrInvalidIndex, name)
		}
	}
	return idx, nil
}

// MustNew is like New but panics if the index is invalid. Intended for package-level declarations.
func MustNew(names []string, options ...Option) *Index {
	idx, err := New(names, options...)
	if err != nil {
		panic(err)
	}
	return idx
}

// Names returns the names of the index levels, in order.
func (idx *Index) Names() []string {
	return append([]string{}, idx.names...)
}

// AllowsNull reports whether null values are permitted.
func (idx *Index) AllowsNull() bool {
	return idx.allowNull
}

// Sorted reports whether the index must be sorted.
func (idx *Index) Sorted() bool {
	return idx.sort
}

// RequiresUnique reports whether keys must be unique.
func (idx *Index) RequiresUnique() bool {
	return idx.requireUnique
}

// DTypes returns a copy of the declared dtypes, or nil if none were declared.
func (idx *Index) DTypes() map[string]frames.DType {
	if idx.dtypes == nil {
		return nil
	}
	ret := make(map[string]frames.DType, len(idx.dtypes))
	for name, dtype := range idx.dtypes {
		ret[name] = dtype
	}
	return ret
}

func (idx *Index) String() string {
	var opts []string
	if idx.allowNull {
		opts = append(opts, "allow_null")
	}
	if idx.sort {
		opts = append(opts, "sort")
	}
	if !idx.requireUnique {
		opts = append(opts, "non_unique")
	}
	return fmt.Sprintf("Index(%s)[%s]", strings.Join(idx.names, ", "), strings.Join(opts, ", "))
}

// AssertEqualNames fails with ErrNamesMismatch unless the label names of `df` equal the index names, in order.
func (idx *Index) AssertEqualNames(df *frames.DataFrame) error {
	got := df.ListLabelNames()
	if !reflect.DeepEqual(got, idx.names) {
		return fmt.Errorf("%w: expected %v, got %v", ErrNamesMismatch, idx.names, got)
	}
	return nil
}

// Validate checks the label levels of `df` against the index without modifying anything. Checks run in order:
// names, dtypes (skipped if `coerceDTypes` is true), uniqueness, nulls (level by level) and sort order.
// The first failing check is returned; a dtype failure lists every mismatching level.
func (idx *Index) Validate(df *frames.DataFrame, coerceDTypes bool) error {
	if df.Err() != nil {
		return df.Err()
	}
	if err := idx.AssertEqualNames(df); err != nil {
		return err
	}
	if !coerceDTypes {
		if err := idx.validateDTypes(df); err != nil {
			return err
		}
	}
	if idx.requireUnique && !df.LabelsAreUnique() {
		return fmt.Errorf("%w: %v", ErrDuplicateValues, idx.names)
	}
	if !idx.allowNull {
		if err := AssertNoNulls(df); err != nil {
			return err
		}
	}
	if idx.sort && !df.LabelsAreSorted() {
		return fmt.Errorf("%w: %v", ErrNotSorted, idx.names)
	}
	return nil
}

func (idx *Index) validateDTypes(df *frames.DataFrame) error {
	var err error
	for _, level := range df.LabelDTypes() {
		want, ok := idx.dtypes[level.Name]
		if !ok || want == level.DType {
			continue
		}
		err = multierr.Append(err,
			fmt.Errorf("%w: %s: expected %v, got %v", ErrDTypeMismatch, level.Name, want, level.DType))
	}
	return err
}

// An ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	coerceDTypes bool
	filterNulls  bool
	logger       *logrus.Logger
}

// WithCoerceDTypes casts the index columns to the declared dtypes. The index must declare dtypes.
func WithCoerceDTypes() ApplyOption {
	return func(c *applyConfig) {
		c.coerceDTypes = true
	}
}

// WithFilterNulls drops rows with a null value in any of the index columns before the index is set.
func WithFilterNulls() ApplyOption {
	return func(c *applyConfig) {
		c.filterNulls = true
	}
}

// WithLogger logs dropped rows to `logger` instead of the standard logrus logger.
func WithLogger(logger *logrus.Logger) ApplyOption {
	return func(c *applyConfig) {
		c.logger = logger
	}
}

// Apply returns `df` with the index set, or `df` itself if it already satisfies Validate.
//
// Otherwise the existing non-trivial index is moved into columns (failing with ErrColumnNameCollision
// rather than overwrite a column), rows with nulls in the index columns are dropped if WithFilterNulls is set,
// the index columns are cast if WithCoerceDTypes is set, the index is set from the columns named by the index
// and sorted if required. The result is validated before it is returned.
//
// Each dropped batch of rows is logged as "dropping rows with null <column>" through the rowcount package.
// Cast failures, such as a null cast to Int64 (frames.ErrIncompatibleNullCoercion), are returned as is.
func (idx *Index) Apply(df *frames.DataFrame, options ...ApplyOption) (*frames.DataFrame, error) {
	c := &applyConfig{logger: logrus.StandardLogger()}
	for _, option := range options {
		option(c)
	}
	if c.coerceDTypes && idx.dtypes == nil {
		return nil, fmt.Errorf("%v: %w", idx, ErrDTypesUnspecified)
	}
	if df.Err() != nil {
		return nil, df.Err()
	}
	if err := idx.Validate(df, false); err == nil {
		return df, nil
	}
	if !df.HasDefaultLabels() {
		df = df.ResetLabels()
		if err := df.Err(); err != nil {
			return nil, err
		}
	}
	if err := df.HasCols(idx.names...); err != nil {
		return nil, fmt.Errorf("%v: %w", idx, err)
	}
	if c.filterNulls {
		var err error
		for _, name := range idx.names {
			if df.Col(name).NullCount() == 0 {
				continue
			}
			df, err = dropNulls(df, name, c.logger)
			if err != nil {
				return nil, err
			}
		}
	}
	if c.coerceDTypes {
		df = df.Cast(idx.dtypes)
		if err := df.Err(); err != nil {
			return nil, fmt.Errorf("%v: %w", idx, err)
		}
	}
	df = df.SetLabels(idx.names...)
	if idx.sort {
		df = df.SortByLabels()
	}
	if err := df.Err(); err != nil {
		return nil, err
	}
	if err := idx.Validate(df, false); err != nil {
		return nil, err
	}
	return df, nil
}

func dropNulls(df *frames.DataFrame, name string, logger *logrus.Logger) (*frames.DataFrame, error) {
	drop := func(df *frames.DataFrame) (*frames.DataFrame, error) {
		return df.DropNull(name), nil
	}
	return rowcount.LogRowcountChange(drop,
		rowcount.WithLogger(logger),
		rowcount.WithDescription("dropping rows with null "+name),
	)(df)
}

// Unset moves the index of `df` into columns and leaves a default index in its place.
// A DataFrame that already has a default index is returned as is.
// If `requireNames` is true, an index with an unnamed level fails with ErrUnnamedIndexLevel;
// otherwise unnamed levels become the column "index" (or "level_<n>" for multiple levels).
// Fails with ErrColumnNameCollision if a level name matches an existing column.
func Unset(df *frames.DataFrame, requireNames bool) (*frames.DataFrame, error) {
	if df.Err() != nil {
		return nil, df.Err()
	}
	if IsUnnamedRangeIndex(df) {
		return df, nil
	}
	if requireNames && HasUnnamedLevel(df) {
		return nil, fmt.Errorf("%w: %v", ErrUnnamedIndexLevel, df.ListLabelNames())
	}
	df = df.ResetLabels()
	if err := df.Err(); err != nil {
		return nil, err
	}
	return df, nil
}

// IsUnnamedRangeIndex reports whether `df` has the default index: a single unnamed level counting up from 0.
func IsUnnamedRangeIndex(df *frames.DataFrame) bool {
	return df.HasDefaultLabels()
}

// HasUnnamedLevel reports whether any level of the index of `df` is unnamed.
func HasUnnamedLevel(df *frames.DataFrame) bool {
	for _, name := range df.ListLabelNames() {
		if strings.HasPrefix(name, "*") {
			return true
		}
	}
	return false
}

// AssertNoNulls fails with ErrNullValues, naming the affected levels, if any level of the index of `df` has nulls.
func AssertNoNulls(df *frames.DataFrame) error {
	if levels := df.NullLabelLevels(); len(levels) > 0 {
		return fmt.Errorf("%w: %v", ErrNullValues, levels)
	}
	return nil
}
