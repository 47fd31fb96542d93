package proxydetect

import (
	"log/slog"
)

// Chain holds an ordered list of detectors and resolves the effective proxy
// configuration by invoking them in priority order.
//
// The detector list is fixed at construction time, so a Chain is safe for
// concurrent use by multiple goroutines.
type Chain struct {
	detectors []Detector
	logger    *slog.Logger
}

// NewChain builds a chain from the configured sources. Detectors are always
// assembled in the fixed precedence order regardless of the order options are
// given in:
//
//	registry override → update-dev override → device management →
//	group policy → OS default → user store (WPAD, PAC, named) →
//	browser → environment
//
// Returns ErrNoDetectors when no option contributed a detector.
func NewChain(opts ...Option) (*Chain, error) {
	o := &chainOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var detectors []Detector
	if o.override != nil {
		detectors = append(detectors, o.override)
	}
	if o.updateDev != nil {
		detectors = append(detectors, o.updateDev)
	}
	// Device management supersedes group policy, so it is probed first.
	if o.deviceManagement != nil {
		detectors = append(detectors, NewDeviceManagementDetector(o.deviceManagement))
	}
	if o.groupPolicy != nil {
		detectors = append(detectors, NewGroupPolicyDetector(o.groupPolicy))
	}
	if o.system != nil {
		detectors = append(detectors, NewDefaultSystemDetector(o.system))
	}
	if o.userStore != nil {
		detectors = append(detectors,
			NewAutoDetectDetector(o.userStore),
			NewAutoConfigDetector(o.userStore),
			NewNamedDetector(o.userStore),
		)
	}
	if o.browser != nil {
		detectors = append(detectors, NewFirefoxDetector(o.browser))
	}
	if o.environment {
		detectors = append(detectors, NewEnvironmentDetector())
	}
	detectors = append(detectors, o.extra...)

	if len(detectors) == 0 {
		return nil, ErrNoDetectors
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{detectors: detectors, logger: logger}, nil
}

// Resolve invokes each detector in priority order and returns the first
// non-absent result. The result's Source field names the detector that
// produced it. An explicit "no proxy" from a high-priority source is a valid
// result and terminates the chain; it does not fall through.
//
// When every detector reports absence or failure, Resolve returns a
// *ResolveError aggregating one reason per detector.
func (c *Chain) Resolve() (*ProxyConfig, error) {
	failures := make([]*SourceError, 0, len(c.detectors))
	for _, d := range c.detectors {
		cfg, err := d.Detect()
		if err != nil {
			failures = append(failures, &SourceError{Source: d.Source(), Err: err})
			// Absence is the expected fallthrough condition and is not
			// worth logging; genuine failures are.
			if !absent(err) {
				c.logger.Warn("proxydetect: detector failed",
					"source", d.Source(), "err", err)
			}
			continue
		}
		cfg.Source = d.Source()
		c.logger.Debug("proxydetect: proxy configuration detected",
			"source", cfg.Source, "mode", cfg.Mode.String())
		return cfg, nil
	}
	return nil, &ResolveError{Failures: failures}
}

// Sources returns the labels of the chain's detectors in priority order.
func (c *Chain) Sources() []string {
	out := make([]string, 0, len(c.detectors))
	for _, d := range c.detectors {
		out = append(out, d.Source())
	}
	return out
}
