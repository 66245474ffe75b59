// Package testsupport provides shared test fixtures: a prevalidated config
// backed by per-test temp directories, a recording chat client, and a
// scripted library searcher.
package testsupport
