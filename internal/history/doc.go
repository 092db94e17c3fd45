// Package history records completed runs in a local SQLite journal so the
// CLI can show what was processed, when, and with what outcome.
package history
