// Package request mints accepted movie requests and keeps the owner-side
// journal. The dispatcher builds exactly one immutable Request per resolved
// candidate, hands it to the notifier, and passes the delivery record back
// unchanged; an undelivered notification degrades the outcome but never
// unwinds the request.
package request
