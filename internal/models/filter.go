package models

// Sort orders accepted by ListFilter.
const (
	SortByCreatedAt = "created_at"
	SortByScore     = "score"
)

// DefaultListLimit is applied by the transport layer when the caller omits
// the limit parameter. The core itself never defaults: it receives typed,
// already-coerced values and rejects a non-positive limit outright.
const DefaultListLimit = 10

// ListFilter is the caller-supplied set of optional constraints used to
// select a subset of shared results. Absent numeric bounds are nil. All
// present predicates combine conjunctively.
type ListFilter struct {
	// Query is matched case-insensitively as a substring of the strategy
	// name, share description and tags. Empty means match-all.
	Query string

	MinTotalReturn *float64
	MaxDrawdown    *float64
	MinSharpeRatio *float64

	Limit  int
	Offset int

	// SortBy selects the total order: created_at (default, newest first,
	// ties broken by id ascending) or score (composite score, descending).
	SortBy string
}

// Validate rejects malformed filters. Unknown query-string keys are dropped
// at the transport boundary and never reach here.
func (f *ListFilter) Validate() error {
	if f.Limit <= 0 {
		return NewFilterError("limit", "must be a positive integer")
	}
	if f.Offset < 0 {
		return NewFilterError("offset", "must not be negative")
	}
	switch f.SortBy {
	case "", SortByCreatedAt, SortByScore:
	default:
		return NewFilterError("sort_by", "must be one of: created_at, score")
	}
	return nil
}
