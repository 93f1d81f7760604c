package domain

// PageRequest is an offset/limit window over an ordered listing.
// A nil *PageRequest means "return the full result".
type PageRequest struct {
	Offset int
	Limit  int
}

// NewPageRequest validates the raw from/size query parameters and translates
// them into an offset/limit window. Both absent yields nil (uncapped result).
// Having only one of the pair present is treated the same as having none.
func NewPageRequest(from, size *int) (*PageRequest, error) {
	if from == nil || size == nil {
		return nil, nil
	}
	if *from < 0 {
		return nil, NewValidationError("from must not be negative")
	}
	if *size < 1 {
		return nil, NewValidationError("size must be positive")
	}

	// from is a zero-based element offset; translate it to a page-aligned
	// window of length size.
	page := 0
	if *from != 0 {
		page = *from / *size
	}
	return &PageRequest{Offset: page * *size, Limit: *size}, nil
}
