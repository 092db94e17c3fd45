// Package main hosts the surveymatch CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into scan,
// pairing, and classification runs, rules and configuration scaffolding, and
// run-journal queries. It centralizes configuration resolution, rules
// discovery, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
