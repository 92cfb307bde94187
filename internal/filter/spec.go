// Package filter applies keep/drop column selection and allowlist or
// blocklist row predicates to assembled rows.
package filter

import "fmt"

// Spec is the caller-supplied filtering configuration. Zero value means
// "keep every row, keep every column".
type Spec struct {
	// KeepColumnNames lists the columns to retain in output. Mutually
	// exclusive with DropColumnNames. Output order always follows schema
	// order, regardless of the order given here.
	KeepColumnNames []string

	// DropColumnNames lists the columns to omit from output.
	DropColumnNames []string

	// Allowlists maps column name -> values. A row is kept only if the
	// column's decoded string value is in the set.
	Allowlists map[string][]string

	// Blocklists maps column name -> values. A row is dropped if the
	// column's decoded string value is in the set.
	Blocklists map[string][]string
}

// ConfigurationError reports a contradictory or invalid Spec. It is
// raised before any parsing begins so a bad configuration can never
// produce a partial output file.
type ConfigurationError struct {
	Option string // the offending option, e.g. "keep_column_names"
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid filter configuration (%s): %s", e.Option, e.Reason)
}

func newConfigError(option, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Option: option, Reason: fmt.Sprintf(format, args...)}
}
