// Command marquee is the CLI entry point: serve runs the daemon, query
// checks the library from the terminal, requests inspects the journal, and
// config/test-notify cover setup.
package main
