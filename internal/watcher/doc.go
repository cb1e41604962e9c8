// Package watcher runs the incremental merge on a schedule.
//
// A single watcher instance per state file is enforced with an advisory
// flock; per-iteration failures are logged and pushed through the notifier
// but do not stop the loop, since transient API outages are routine for a
// long-lived poller.
package watcher
