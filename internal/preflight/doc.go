// Package preflight provides readiness checks for the filesystem paths a
// run depends on.
//
// The CLI runs Evaluate before starting a tree or single-pair run. If any
// check fails, the run is refused up front instead of failing mid-scan or,
// worse, after half the reports are written.
package preflight
