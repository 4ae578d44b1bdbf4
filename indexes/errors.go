package indexes

import (
	"errors"

	"github.com/zkurtz/pandahandler/frames"
)

var (
	// ErrInvalidIndex is returned by New when the index definition is inconsistent.
	ErrInvalidIndex = errors.New("invalid index definition")
	// ErrNamesMismatch is returned when the label names of a DataFrame differ from the index names.
	ErrNamesMismatch = errors.New("index names do not match")
	// ErrDTypeMismatch is returned for each index level whose DType differs from the index dtypes.
	ErrDTypeMismatch = errors.New("index dtype does not match")
	// ErrDuplicateValues is returned when a unique index has repeated keys.
	ErrDuplicateValues = errors.New("the index has duplicate values")
	// ErrNullValues is returned when an index that does not allow nulls has null values in any level.
	ErrNullValues = errors.New("the index has null values")
	// ErrNotSorted is returned when a sorted index is not in non-decreasing order.
	ErrNotSorted = errors.New("the index is not sorted")
	// ErrColumnNameCollision is returned when moving index levels into columns would overwrite a column.
	ErrColumnNameCollision = frames.ErrColumnNameCollision
	// ErrUnnamedIndexLevel is returned by Unset when names are required but a level of a non-trivial index is unnamed.
	ErrUnnamedIndexLevel = errors.New("at least one column of the index is unnamed while the index itself is not a range index")
	// ErrDTypesUnspecified is returned by Apply when dtype coercion is requested from an index without dtypes.
	ErrDTypesUnspecified = errors.New("coerce dtypes requested but dtypes is not specified")
)
