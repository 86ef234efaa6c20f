package dataset

// FilterNIA returns a new table containing only rows whose
// neighbourhood identifier is NIA-designated. The rate-column schema is
// preserved; rows keep their relative order.
func FilterNIA(table *WideTable, nia NIASet) *WideTable {
	filtered := &WideTable{RateColumns: table.RateColumns}
	for _, row := range table.Rows {
		if nia.Contains(row.Neighbourhood) {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}
