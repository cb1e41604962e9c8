// Package monitor wires the API client, state store, history ledger, and
// notifier into the two operations the CLI exposes: the bulk import that
// seeds the timeline and the incremental update that merges the newest
// images into it.
package monitor
