package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Column layouts for the MediaWiki tables this tool understands.
// Wikimedia documents these tables at
// https://www.mediawiki.org/wiki/Manual:Page_table (and siblings).
var tableColumns = map[string][]string{
	"category": {
		"cat_id",
		"cat_title",
		"cat_pages",
		"cat_subcats",
		"cat_files",
	},
	"redirect": {
		"rd_from",
		"rd_namespace",
		"rd_title",
		"rd_interwiki",
		"rd_fragment",
	},
	"page_props": {
		"pp_page",
		"pp_propname",
		"pp_value",
		"pp_sortkey",
	},
	"page": {
		"page_id",
		"page_namespace",
		"page_title",
		"page_restrictions",
		"page_is_redirect",
		"page_is_new",
		"page_random",
		"page_touched",
		"page_links_updated",
		"page_latest",
		"page_len",
		"page_content_model",
		"page_lang",
	},
	"categorylinks": {
		"cl_from",
		"cl_to",
		"cl_sortkey",
		"cl_timestamp",
		"cl_sortkey_prefix",
		"cl_collation",
		"cl_type",
	},
	"pagelinks": {
		"pl_from",
		"pl_namespace",
		"pl_title",
		"pl_from_namespace",
	},
}

// UnsupportedTableError reports a request for a table with no known schema
type UnsupportedTableError struct {
	Table string
	Known []string
}

func (e *UnsupportedTableError) Error() string {
	return fmt.Sprintf("unsupported table %q - supported tables: %s",
		e.Table, strings.Join(e.Known, ", "))
}

// Lookup returns the schema for a supported table name
func Lookup(table string) (*TableSchema, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return nil, &UnsupportedTableError{Table: table, Known: ValidTableNames()}
	}
	columns := make([]string, len(cols))
	copy(columns, cols)
	return &TableSchema{Table: table, Columns: columns}, nil
}

// ValidTableNames returns the supported table names in sorted order
func ValidTableNames() []string {
	names := make([]string, 0, len(tableColumns))
	for name := range tableColumns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
