package library

import (
	"context"
	"fmt"
)

// Candidate is one library entry returned by a search, carried verbatim from
// the media server response.
type Candidate struct {
	ID        string
	Title     string
	Year      int
	Summary   string
	Available bool
}

// Label renders the candidate the way it appears in prompts and
// notifications: "Title (Year)" or just the title when the year is unknown.
func (c Candidate) Label() string {
	if c.Year == 0 {
		return c.Title
	}
	return fmt.Sprintf("%s (%d)", c.Title, c.Year)
}

// Searcher is the media-server search capability. Implementations issue
// network I/O and must honour ctx cancellation. Results may be empty or
// partial; callers bound and rank them.
type Searcher interface {
	Search(ctx context.Context, key string) ([]Candidate, error)
}
