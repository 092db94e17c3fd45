// Package rules loads, saves, and compiles the matching rules document.
//
// The document is JSON, edited by operators and persisted outside the core
// (the CLI owns the file location). Compile validates every pattern up
// front and produces an immutable Matcher; a pattern that does not compile
// is a configuration error for the whole run, never a per-file skip.
//
// The Matcher is the single home of identifier extraction: base keys and
// detected ids come from directory names, image ids from file stems. Token
// and extension comparisons are Unicode case-folded so trees graded on
// case-insensitive filesystems pair correctly.
package rules
