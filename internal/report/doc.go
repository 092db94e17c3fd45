// Package report renders classification rows and problem records into the
// fixed CSV schemas.
package report
