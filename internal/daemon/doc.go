// Package daemon composes the serve-mode process: it assembles the Plex
// search adapter, session manager, dispatcher, notification router, and HTTP
// gateway into a single lifecycle with flock-based locking to prevent
// multiple instances from sharing one journal.
package daemon
