// Package statestore persists the image timeline as a JSON file.
//
// The on-disk document is {"list": [[timestamp, url], ...]}, newest-first.
// Writes go through a temp file and rename so readers never observe a
// partial document, and read-modify-write cycles hold an advisory flock
// (<state file>.lock) so two concurrent update runs cannot interleave.
package statestore
