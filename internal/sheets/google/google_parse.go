package google

import (
	"fmt"
	"strings"
)

// toStringTable flattens the values matrix returned by the Sheets API into
// plain strings for the shared ledger codec.
func toStringTable(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strings.TrimSpace(fmt.Sprint(v))
		}
		out[i] = cells
	}
	return out
}

func toAnyTable(table [][]string) [][]interface{} {
	out := make([][]interface{}, len(table))
	for i, row := range table {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
