// Package concierge orchestrates the end-to-end request workflow: it
// normalizes a raw title, searches the library, ranks the candidates, and
// either dispatches a request, opens a disambiguation session, or reports
// that nothing matched. The chat gateway and the one-shot CLI both drive
// this package; it holds no transport concerns of its own.
package concierge
