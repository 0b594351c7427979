package utils

// IDTracker remembers identifiers and the first row each was seen on
type IDTracker struct {
	firstRow map[string]int
}

// NewIDTracker creates a new tracker
func NewIDTracker() *IDTracker {
	return &IDTracker{firstRow: make(map[string]int)}
}

// Add records id at row. It returns the earlier row and false if the id was already seen.
func (t *IDTracker) Add(id string, row int) (int, bool) {
	if first, exists := t.firstRow[id]; exists {
		return first, false
	}
	t.firstRow[id] = row
	return row, true
}

// Count returns the number of distinct identifiers tracked
func (t *IDTracker) Count() int {
	return len(t.firstRow)
}
