// Package logging builds the slog loggers used across the monitor.
//
// Two output formats are supported: a human-oriented console format
// (timestamp, level, component prefix, key=value attrs) and plain JSON.
// Components obtain scoped loggers through NewComponentLogger, which tags
// every record with a component attribute rendered as a prefix in console
// output.
package logging
