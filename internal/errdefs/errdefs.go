// Package errdefs defines the error markers the run pipeline classifies
// failures with, plus a wrap helper that keeps component context attached.
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig marks invalid configuration, including rules documents
	// whose patterns do not compile. Fatal before any scan begins.
	ErrConfig = errors.New("configuration error")
	// ErrScan marks a root directory that could not be read at all.
	// Subtree-level read failures become problem records instead.
	ErrScan = errors.New("scan error")
	// ErrWrite marks a report write failure. Fatal to the run.
	ErrWrite = errors.New("write error")
	// ErrLocked marks an output directory already claimed by another run.
	ErrLocked = errors.New("output directory locked")
	// ErrUsage marks caller mistakes, such as a single-pair run whose base
	// key cannot be derived and no override was given.
	ErrUsage = errors.New("usage error")
)

// Wrap tags err with the given marker and a component/operation prefix so
// callers can classify it with errors.Is while keeping the full chain.
func Wrap(marker error, component, operation string, err error) error {
	detail := buildDetail(component, operation)
	if marker == nil {
		marker = ErrWrite
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Wrapf is Wrap with a formatted message in place of a wrapped error.
func Wrapf(marker error, component, operation, format string, args ...any) error {
	detail := buildDetail(component, operation)
	if marker == nil {
		marker = ErrWrite
	}
	return fmt.Errorf("%w: %s: %s", marker, detail, fmt.Sprintf(format, args...))
}

func buildDetail(component, operation string) string {
	parts := make([]string, 0, 2)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
