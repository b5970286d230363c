package logger

// ErrorEntry exposes errorEntry for tests.
type ErrorEntry = errorEntry

// Exported for white-box tests.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
