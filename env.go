package proxydetect

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"
)

// EnvironmentDetector reads the standard proxy environment variables
// (HTTP_PROXY, HTTPS_PROXY, NO_PROXY and their lowercase forms). It is the
// lowest-priority source: the environment reflects the invoking shell, not
// administered configuration.
type EnvironmentDetector struct {
	// fromEnv is a test seam; defaults to httpproxy.FromEnvironment.
	fromEnv func() *httpproxy.Config
}

// NewEnvironmentDetector returns a detector over the process environment.
func NewEnvironmentDetector() *EnvironmentDetector {
	return &EnvironmentDetector{fromEnv: httpproxy.FromEnvironment}
}

// Source implements Detector.
func (d *EnvironmentDetector) Source() string { return SourceEnvironment }

// Detect implements Detector. An environment with neither HTTP_PROXY nor
// HTTPS_PROXY set is an absent source.
func (d *EnvironmentDetector) Detect() (*ProxyConfig, error) {
	env := d.fromEnv()
	if env.HTTPProxy == "" && env.HTTPSProxy == "" {
		return nil, fmt.Errorf("%w: no proxy environment variables set", ErrSourceAbsent)
	}
	cfg := &ProxyConfig{Mode: NamedProxy, Source: SourceEnvironment}
	var err error
	if env.HTTPProxy != "" {
		cfg.HTTPProxy, err = envHostPort(env.HTTPProxy)
		if err != nil {
			return nil, err
		}
	}
	if env.HTTPSProxy != "" {
		cfg.HTTPSProxy, err = envHostPort(env.HTTPSProxy)
		if err != nil {
			return nil, err
		}
	}
	if env.HTTPProxy == "" {
		cfg.HTTPProxy = cfg.HTTPSProxy
	}
	if env.HTTPSProxy == "" {
		cfg.HTTPSProxy = cfg.HTTPProxy
	}
	if env.NoProxy != "" {
		for _, pat := range strings.Split(env.NoProxy, ",") {
			if pat = strings.TrimSpace(pat); pat != "" {
				cfg.BypassList = append(cfg.BypassList, pat)
			}
		}
	}
	return cfg, nil
}

// envHostPort extracts the endpoint from a proxy environment value, which
// may or may not carry a scheme.
func envHostPort(value string) (HostPort, error) {
	s := value
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return HostPort{}, fmt.Errorf("%w: bad proxy URL %q", ErrMalformedSource, value)
		}
		s = u.Host
	}
	return splitHostPort(s)
}
