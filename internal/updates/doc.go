// Package updates polls the release feed and announces newer versions
// through the event bridge so the UI can offer an update.
package updates
