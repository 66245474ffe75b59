// Package chat fixes the chat platform at its interface boundary: inbound
// command and interaction shapes, and the outbound Client the notifier uses
// to reach the library owner.
package chat
