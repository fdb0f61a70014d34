package catalog

import (
	"fmt"
	"strings"
)

// describe renders a snapshot as prose suitable for a translation prompt.
// Every table becomes one sentence listing its columns, primary key, and
// foreign keys.
func describe(snap *Snapshot) string {
	parts := make([]string, 0, len(snap.TableOrder))

	for _, table := range snap.TableOrder {
		info := snap.Tables[table]

		var primaryKeys []string
		for _, col := range info.ColumnOrder {
			if info.Columns[col].PrimaryKey {
				primaryKeys = append(primaryKeys, col)
			}
		}

		desc := fmt.Sprintf("Table '%s' contains columns: %s", table, strings.Join(info.ColumnOrder, ", "))
		if len(primaryKeys) > 0 {
			desc += fmt.Sprintf(" (primary key: %s)", strings.Join(primaryKeys, ", "))
		}
		if len(info.ForeignKeys) > 0 {
			fkDescs := make([]string, 0, len(info.ForeignKeys))
			for _, fk := range info.ForeignKeys {
				fkDescs = append(fkDescs, fmt.Sprintf("%s references %s.%s", fk.Column, fk.ReferencedTable, fk.ReferencedColumn))
			}
			desc += ". Foreign keys: " + strings.Join(fkDescs, "; ")
		}
		parts = append(parts, desc)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}
