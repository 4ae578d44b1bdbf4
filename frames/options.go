package frames

var optionLevelSeparator = "|"
var optionMaxRows = 50

// SetOptionLevelSeparator changes the separator used to join label levels into a single row key.
func SetOptionLevelSeparator(sep string) {
	optionLevelSeparator = sep
}

// SetOptionMaxRows changes the number of rows rendered by String() before the middle rows are elided.
func SetOptionMaxRows(n int) {
	optionMaxRows = n
}
