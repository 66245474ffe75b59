// Package services carries cross-cutting service plumbing: the sentinel error
// taxonomy used to classify workflow failures into user replies, and context
// annotation helpers that thread chat identifiers through handler calls for
// structured logging.
package services
