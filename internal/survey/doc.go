// Package survey defines the core data model shared by the scanner, pairing
// resolver, classifier, and report emitter.
//
// A Unit is one survey directory discovered on either the raw or the graded
// side, keyed by its canonical base key. Paired joins the two sides for one
// base key and records how the pairing went. ImageRecord and ProblemRecord
// are the two row shapes the reports are built from, and RunSummary is the
// aggregate a completed run hands back to the caller.
//
// Everything here is plain data: values are constructed by the pipeline
// stages and never mutated afterwards.
package survey
