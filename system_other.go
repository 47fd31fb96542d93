//go:build !windows

package proxydetect

// NewSystemChain builds the chain of system-backed detectors. Only Windows
// carries system-backed proxy sources; on other platforms callers can still
// assemble a chain manually via NewChain with, for example, WithBrowser and
// WithEnvironment.
func NewSystemChain(opts ...Option) (*Chain, error) {
	return nil, ErrUnsupportedPlatform
}
