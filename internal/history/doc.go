// Package history archives merge activity in SQLite.
//
// The JSON timeline stays the canonical state; history is an append-only
// ledger recording every run (import or update) and every image accepted,
// keyed by capture timestamp. It answers questions the timeline cannot,
// such as when an image was first observed and which run brought it in.
// History failures are treated as non-fatal by callers.
package history
