package sheet

// Detect returns the smallest rectangle covering every occupied cell.
// An empty sheet yields {1, 1, 0}: no rows, one column.
func Detect(s *Sheet) Bounds {
	minCol, maxCol, maxRow := 0, 0, 0

	for r := 1; r <= s.Rows(); r++ {
		first, last := 0, 0
		for c, v := range s.Row(r) {
			if !v.Occupied() {
				continue
			}
			if first == 0 {
				first = c + 1
			}
			last = c + 1
		}
		if first == 0 {
			continue
		}
		maxRow = r
		if minCol == 0 || first < minCol {
			minCol = first
		}
		if last > maxCol {
			maxCol = last
		}
	}

	if minCol == 0 {
		return Bounds{MinCol: 1, MaxCol: 1, MaxRow: 0}
	}
	return Bounds{MinCol: minCol, MaxCol: maxCol, MaxRow: maxRow}
}
