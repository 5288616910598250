package model

import (
	"fmt"
	"strings"
)

// SchemaError means the batch source is missing required columns. It is the
// only run-fatal error: nothing is scheduled when it occurs.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("batch source missing required columns: %s", strings.Join(e.Missing, ", "))
}

// MalformedJobError means one row's fields cannot be normalized into a Job.
// The row is skipped; the batch continues.
type MalformedJobError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedJobError) Error() string {
	return fmt.Sprintf("malformed job field %s=%q: %s", e.Field, e.Value, e.Reason)
}
