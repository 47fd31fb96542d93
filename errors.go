package proxydetect

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the proxydetect package.
var (
	// ErrSourceAbsent indicates a configuration source is not applicable or
	// not configured. This is the expected outcome for most detectors and is
	// never logged as an error.
	ErrSourceAbsent = errors.New("proxydetect: source not configured")

	// ErrMalformedSource indicates a source holds data that could not be
	// parsed or is internally inconsistent.
	ErrMalformedSource = errors.New("proxydetect: source data malformed")

	// ErrAccessDenied indicates the caller lacks the privilege required to
	// read a configuration source.
	ErrAccessDenied = errors.New("proxydetect: access to source denied")

	// ErrContextMismatch indicates a per-user source was queried outside the
	// user security context it belongs to.
	ErrContextMismatch = errors.New("proxydetect: caller is not running in the required user context")

	// ErrIOFailure indicates the underlying store or file could not be read.
	ErrIOFailure = errors.New("proxydetect: source unreadable")

	// ErrUnsupportedPlatform indicates the current operating system has no
	// system-backed detector support.
	ErrUnsupportedPlatform = errors.New("proxydetect: unsupported platform")

	// ErrNoDetectors indicates a chain was constructed without any detectors.
	ErrNoDetectors = errors.New("proxydetect: chain has no detectors")
)

// SourceError associates a detector failure with the source that produced it.
// It wraps one of the sentinel errors so that errors.Is still works.
type SourceError struct {
	// Source is the label of the detector that failed.
	Source string
	// Err is the underlying failure, wrapping a sentinel.
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ResolveError is returned by Chain.Resolve when every detector in the chain
// reported absence or failure. It aggregates one reason per detector for
// diagnostics; exhaustion of the precedence order is not itself an error
// condition worth logging.
type ResolveError struct {
	// Failures holds one entry per detector, in chain order.
	Failures []*SourceError
}

func (e *ResolveError) Error() string {
	if len(e.Failures) == 0 {
		return "proxydetect: no proxy configuration detected"
	}
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.Error())
	}
	return "proxydetect: no proxy configuration detected: " + strings.Join(reasons, "; ")
}

// absent reports whether err represents plain source absence, the expected
// fallthrough condition in the chain.
func absent(err error) bool {
	return errors.Is(err, ErrSourceAbsent)
}
