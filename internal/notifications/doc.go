// Package notifications delivers push notifications via ntfy when a topic is
// configured, and silently drops them otherwise. The bridge uses it to
// surface update events; the daemon uses it for profile and error notices.
package notifications
