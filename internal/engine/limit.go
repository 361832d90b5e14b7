package engine

import "sqlfake/internal/row"

// ApplyLimit returns the page of dataset starting at offset with at most
// rowCount rows, per spec §4.3. hasLimit distinguishes "no LIMIT clause"
// (dataset returned unchanged) from an explicit LIMIT of zero rows.
func ApplyLimit(dataset *row.Dataset, offset, rowCount int, hasLimit bool) *row.Dataset {
	if !hasLimit {
		return dataset
	}
	keys := dataset.Keys()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(keys) {
		return row.NewDataset()
	}
	end := len(keys)
	if rowCount >= 0 && offset+rowCount < end {
		end = offset + rowCount
	}
	return dataset.Slice(keys[offset:end])
}
