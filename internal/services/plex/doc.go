// Package plex implements the library search boundary against a Plex server:
// section discovery by name, token-authenticated JSON search, and a capped
// candidate mapping. Transport failures surface as timeout or external
// service markers so handlers can answer "try again later" without detail.
package plex
