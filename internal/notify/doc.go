// Package notify routes accepted requests to the library owner.
//
// The primary channel is a direct message through the chat client; an
// optional ntfy topic mirrors every notification for push delivery. Failures
// are reported back as degraded records, never as rolled-back requests.
package notify
