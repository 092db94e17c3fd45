// Package engine sequences the run pipeline: scan both trees, resolve
// pairings, classify raw images against graded evidence, and emit reports.
//
// Three operations are exposed. Preview stops after pairing and returns
// what a run would process. RunTree classifies every paired survey under
// two roots and writes the merged, per-survey, and problems reports.
// RunSinglePair treats one raw and one graded directory as a single survey
// and writes one report file.
//
// The engine holds no state across invocations. Every run compiles its own
// rules, takes an exclusive lock on the output directory, and reports one
// progress event per completed survey.
package engine
