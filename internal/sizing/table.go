// Package sizing computes suggested values for the criteria tied to
// physical capacity standards (parking, exhibition and post-sale floor
// space, vehicle exposure counts). Values come from interval-bucketed
// lookup tables keyed by a dealership-derived sales figure and the
// installation's type code. Everything here is a pure function of its
// inputs; persistence and merging happen in the callers.
package sizing

// Row maps the closed interval [Initial, End] to a fixed-width set of
// per-column output values.
type Row struct {
	Initial float64
	End     float64
	Values  []float64
}

// Table is an ordered list of interval rows. Rows are checked in order
// and the first containing interval wins, so overlapping rows behave
// deterministically.
type Table struct {
	Rows []Row
}

// Lookup returns the value at the 1-based column of the first row whose
// interval contains query. The second return is false when no row matches
// or the column is out of range for the matching row.
func (t *Table) Lookup(query float64, column int) (float64, bool) {
	if column < 1 {
		return 0, false
	}
	for _, row := range t.Rows {
		if query < row.Initial || query > row.End {
			continue
		}
		if column > len(row.Values) {
			return 0, false
		}
		return row.Values[column-1], true
	}
	return 0, false
}
