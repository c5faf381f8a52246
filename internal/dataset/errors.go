package dataset

import "fmt"

// MissingColumnError reports a required column absent from an input file.
// It is fatal: no partial output is written once raised.
type MissingColumnError struct {
	File   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: required column %q not found", e.File, e.Column)
}

// EmptyInputError reports an input file with a header but zero data rows.
type EmptyInputError struct {
	File string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no data rows", e.File)
}
