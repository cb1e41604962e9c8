// Package notifications delivers push notifications through ntfy.
//
// When no topic is configured the service degrades to a no-op, so callers
// never need to branch on whether notifications are enabled.
package notifications
