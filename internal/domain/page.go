package domain

import "fmt"

// PageState tracks list pagination.
// Total == 0 means the page count is not yet known.
type PageState struct {
	Current int
	Total   int
}

// NewPageState returns the state of a session that has not fetched yet
func NewPageState() PageState {
	return PageState{Current: 1}
}

func (p PageState) HasNext() bool     { return p.Total > 0 && p.Current < p.Total }
func (p PageState) HasPrevious() bool { return p.Current > 1 }

// InRange reports whether n may be requested
func (p PageState) InRange(n int) bool {
	if n < 1 {
		return false
	}
	return p.Total == 0 || n <= p.Total
}

// Check returns ErrInvalidPage when n may not be requested
func (p PageState) Check(n int) error {
	if !p.InRange(n) {
		if p.Total > 0 {
			return fmt.Errorf("%w: %d (have %d)", ErrInvalidPage, n, p.Total)
		}
		return fmt.Errorf("%w: %d", ErrInvalidPage, n)
	}
	return nil
}

// Clamp pulls Current into [1, Total] when Total is known
func (p PageState) Clamp() PageState {
	if p.Current < 1 {
		p.Current = 1
	}
	if p.Total > 0 && p.Current > p.Total {
		p.Current = p.Total
	}
	return p
}

// Window returns up to size page numbers centered on Current, for pagination controls
func (p PageState) Window(size int) []int {
	if size <= 0 {
		return nil
	}
	start := p.Current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if p.Total > 0 && end > p.Total {
		end = p.Total
		start = max(1, end-size+1)
	}
	pages := make([]int, 0, size)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}
