package domain

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// PageRequest selects one zero-based page of records.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request into a usable range.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
