package storage

// Filter is an equality filter over stored columns. A nil or empty filter
// matches every document in the collection.
type Filter map[string]any

// Sort orders a list query by a single column.
type Sort struct {
	Field string
	Desc  bool
}
