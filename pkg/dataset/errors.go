package dataset

import (
	"fmt"
	"strings"

	"co2dash/pkg/sentinel"
)

// SchemaError reports required columns missing after renaming, or columns
// that collapsed onto the same identifier. Columns lists what was detected.
type SchemaError struct {
	Missing   []string
	Duplicate []string
	Columns   []string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(sentinel.ErrSchemaMismatch.Error())
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing column(s) %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Duplicate) > 0 {
		fmt.Fprintf(&b, ": duplicate column(s) %s", strings.Join(e.Duplicate, ", "))
	}
	fmt.Fprintf(&b, " (detected columns: %s)", strings.Join(e.Columns, ", "))
	return b.String()
}

func (e *SchemaError) Unwrap() error { return sentinel.ErrSchemaMismatch }

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel.ErrDataUnavailable, fmt.Sprintf(format, args...))
}

func unavailableErr(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", sentinel.ErrDataUnavailable, fmt.Sprintf(format, args...), err)
}
