package domain

import (
	"maps"
	"slices"
)

// Record is one row of a record table keyed by column name.
type Record map[string]any

// Table is an in-memory table of records sharing a column set.
type Table struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// HasColumn reports whether name is part of the schema. Without a declared
// column list the records themselves are consulted.
func (t Table) HasColumn(name string) bool {
	if len(t.Columns) > 0 {
		return slices.Contains(t.Columns, name)
	}
	for _, r := range t.Records {
		if _, ok := r[name]; ok {
			return true
		}
	}
	return false
}

func (t Table) Len() int {
	return len(t.Records)
}

// Clone copies the column list and every record map.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]Record, len(t.Records)),
	}
	for i, r := range t.Records {
		out.Records[i] = maps.Clone(r)
	}
	return out
}
