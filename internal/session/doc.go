// Package session owns the lifecycle of interactive disambiguation exchanges.
//
// Each session is keyed by (owner user, conversation channel) so a user holds
// at most one pending selection per channel. Sessions move from Open to
// exactly one of Resolved, Expired, or Cancelled; every terminal transition
// evicts the key slot. Transitions are guarded per session, not by a global
// lock, so unrelated exchanges proceed independently, and the first terminal
// transition always wins when a user choice races the expiry timer.
package session
