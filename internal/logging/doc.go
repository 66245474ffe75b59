// Package logging builds the slog loggers used across Marquee.
//
// It provides console and JSON handlers, file fan-out alongside stdout, attr
// aliases so call sites avoid importing slog directly, and context helpers
// that attach chat identifiers (user, channel, session, command) to every
// record emitted while handling a workflow.
package logging
