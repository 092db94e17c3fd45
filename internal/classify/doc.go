// Package classify labels raw survey images against graded evidence using
// a fixed priority policy over the configured rule signals.
package classify
