// Package library defines the media-server search boundary: the Candidate
// record and the Searcher capability the concierge consumes. Concrete
// transports live under internal/services.
package library
