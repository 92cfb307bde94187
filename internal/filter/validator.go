package filter

import (
	"github.com/kwnlp/wpsql2csv/internal/domain/schema"
)

// validate rejects contradictory or unknown configuration up front:
// keep+drop both set, allow+block on the same column, duplicate names,
// and names that are not columns of the target table.
func validate(ts *schema.TableSchema, spec Spec) error {
	if len(spec.KeepColumnNames) > 0 && len(spec.DropColumnNames) > 0 {
		return newConfigError("keep_column_names",
			"keep_column_names and drop_column_names cannot both be set")
	}

	if err := validateColumnList(ts, "keep_column_names", spec.KeepColumnNames); err != nil {
		return err
	}
	if err := validateColumnList(ts, "drop_column_names", spec.DropColumnNames); err != nil {
		return err
	}

	for column := range spec.Allowlists {
		if !ts.HasColumn(column) {
			return newConfigError("allowlists",
				"column %q is not a column of table %q", column, ts.Table)
		}
	}
	for column := range spec.Blocklists {
		if !ts.HasColumn(column) {
			return newConfigError("blocklists",
				"column %q is not a column of table %q", column, ts.Table)
		}
		if _, both := spec.Allowlists[column]; both {
			return newConfigError("blocklists",
				"column %q has both an allowlist and a blocklist", column)
		}
	}

	return nil
}

func validateColumnList(ts *schema.TableSchema, option string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return newConfigError(option, "column %q listed more than once", name)
		}
		seen[name] = struct{}{}
		if !ts.HasColumn(name) {
			return newConfigError(option,
				"column %q is not a column of table %q", name, ts.Table)
		}
	}
	return nil
}
