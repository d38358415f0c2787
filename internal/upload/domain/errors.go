package upload

import "fmt"

// Error codes reported to the caller. Row-attributable codes carry a 1-based
// source row number; the others leave Row at 0.
const (
	CodeUnsupportedFormat = "unsupported_format"
	CodeMissingHeader     = "missing_header"
	CodeMissingColumns    = "missing_columns"
	CodeEmptyFile         = "empty_file"
	CodeMissingDependency = "missing_dependency"

	CodeMissingValue     = "missing_value"
	CodeInvalidValue     = "invalid_value"
	CodeMissingTimestamp = "missing_timestamp"
	CodeInvalidTimestamp = "invalid_timestamp"

	CodeEmptyData         = "empty_data"
	CodeDuplicateInterval = "duplicate_interval"
	CodeInvalidInterval   = "invalid_interval"
	CodeMissingInterval   = "missing_interval"
)

// ParsingError is one validation finding. Row is the 1-based source row
// (header = row 1), or 0 when the error is not row-specific.
type ParsingError struct {
	Code    string
	Message string
	Row     int
}

// ValidationError carries every finding of a rejected upload. The pipeline
// accumulates findings across the whole file and raises them as one set.
type ValidationError struct {
	RawPath string
	Errors  []ParsingError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("upload validation failed: %d error(s)", len(e.Errors))
}
