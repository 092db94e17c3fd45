// Package logging configures the process-wide structured logger.
//
// Two output formats are supported: a condensed console format for
// interactive use and JSON for machine consumption. Components derive
// their own loggers via NewComponentLogger so every line carries a
// component attribute.
package logging
