// Package gateway serves the HTTP surface that chat-platform bridges call:
// slash commands arrive on /v1/commands, button callbacks on
// /v1/interactions, and a liveness probe on /v1/healthz. Responses carry
// both a ready-to-post message and structured fields for bridges that
// render their own components.
package gateway
