package proxydetect

import (
	"fmt"
	"strings"
)

// Proxy mode values a policy source may declare.
const (
	PolicyModeDirect       = "direct"
	PolicyModeAutoDetect   = "auto_detect"
	PolicyModePACScript    = "pac_script"
	PolicyModeFixedServers = "fixed_servers"
	PolicyModeSystem       = "system"
)

// PolicySource is the capability set a managed-policy backend must provide.
// Two backends exist: group policy and device management. Implementations
// report a missing field with an error wrapping ErrSourceAbsent.
type PolicySource interface {
	// IsManaged reports whether the machine is managed by this source at all.
	IsManaged() (bool, error)

	// ProxyMode returns the declared proxy mode, one of the PolicyMode
	// constants.
	ProxyMode() (string, error)

	// ProxyPacURL returns the PAC script URL, meaningful under pac_script.
	ProxyPacURL() (string, error)

	// ProxyServer returns the proxy server declaration, meaningful under
	// fixed_servers.
	ProxyServer() (string, error)
}

// policyDetector detects proxy configuration declared through a managed
// policy. Detection is a single algorithm over the PolicySource capability
// set; the group-policy and device-management detectors differ only in the
// injected source and label, which is what guarantees they produce identical
// results from identical policy values.
type policyDetector struct {
	src    PolicySource
	source string
}

// NewGroupPolicyDetector returns a detector reading the group-policy source.
func NewGroupPolicyDetector(src PolicySource) Detector {
	return &policyDetector{src: src, source: SourceGroupPolicy}
}

// NewDeviceManagementDetector returns a detector reading the
// device-management source. It behaves exactly like the group-policy
// detector apart from its backing store.
func NewDeviceManagementDetector(src PolicySource) Detector {
	return &policyDetector{src: src, source: SourceDeviceManagement}
}

func (d *policyDetector) Source() string { return d.source }

// Detect implements Detector. An unmanaged machine is an absent source. A
// declared mode whose required field is missing or unparseable is a
// malformed source, never silently downgraded to a direct connection.
func (d *policyDetector) Detect() (*ProxyConfig, error) {
	managed, err := d.src.IsManaged()
	if err != nil {
		return nil, err
	}
	if !managed {
		return nil, fmt.Errorf("%w: machine is not managed", ErrSourceAbsent)
	}
	mode, err := d.src.ProxyMode()
	if err != nil {
		return nil, err
	}
	switch mode {
	case PolicyModeDirect:
		return noProxyConfig(d.source), nil
	case PolicyModeAutoDetect:
		return autoDetectConfig(d.source), nil
	case PolicyModePACScript:
		url, err := d.src.ProxyPacURL()
		if err != nil {
			if absent(err) {
				return nil, fmt.Errorf("%w: mode %s without a PAC URL", ErrMalformedSource, mode)
			}
			return nil, err
		}
		if strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("%w: mode %s with an empty PAC URL", ErrMalformedSource, mode)
		}
		return autoConfigURLConfig(d.source, url), nil
	case PolicyModeFixedServers:
		server, err := d.src.ProxyServer()
		if err != nil {
			if absent(err) {
				return nil, fmt.Errorf("%w: mode %s without a proxy server", ErrMalformedSource, mode)
			}
			return nil, err
		}
		cfg, err := ParseProxyServer(server)
		if err != nil {
			return nil, err
		}
		cfg.Source = d.source
		return cfg, nil
	case PolicyModeSystem:
		// The policy explicitly defers to the system settings, so the
		// lower-priority detectors should decide.
		return nil, fmt.Errorf("%w: policy defers to system settings", ErrSourceAbsent)
	default:
		return nil, fmt.Errorf("%w: unknown proxy mode %q", ErrMalformedSource, mode)
	}
}

// ParseProxyServer parses a proxy server declaration into a NamedProxy
// config. Accepted forms are a bare "host:port" (or "host") applying to both
// schemes, and a scheme-qualified list in the WinHTTP syntax
// ("http=host:port;https=host:port", semicolon or whitespace separated).
// Entries for schemes other than http and https are ignored.
func ParseProxyServer(server string) (*ProxyConfig, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return nil, fmt.Errorf("%w: empty proxy server declaration", ErrMalformedSource)
	}
	cfg := &ProxyConfig{Mode: NamedProxy}
	if !strings.Contains(server, "=") {
		hp, err := splitHostPort(server)
		if err != nil {
			return nil, err
		}
		cfg.HTTPProxy = hp
		cfg.HTTPSProxy = hp
		return cfg, nil
	}
	for _, entry := range strings.FieldsFunc(server, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t'
	}) {
		scheme, addr, ok := strings.Cut(entry, "=")
		if !ok || addr == "" {
			return nil, fmt.Errorf("%w: bad proxy list entry %q", ErrMalformedSource, entry)
		}
		hp, err := splitHostPort(addr)
		if err != nil {
			return nil, err
		}
		switch scheme {
		case "http":
			cfg.HTTPProxy = hp
		case "https":
			cfg.HTTPSProxy = hp
		}
	}
	if cfg.HTTPProxy.IsZero() && cfg.HTTPSProxy.IsZero() {
		return nil, fmt.Errorf("%w: proxy list %q has no http or https entry", ErrMalformedSource, server)
	}
	return cfg, nil
}

// splitHostPort splits "host:port" or "host" into a HostPort. The port, when
// present, must be numeric.
func splitHostPort(addr string) (HostPort, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return HostPort{}, fmt.Errorf("%w: empty proxy address", ErrMalformedSource)
	}
	i := strings.LastIndexByte(addr, ':')
	if i < 0 {
		return HostPort{Host: addr}, nil
	}
	host, port := addr[:i], addr[i+1:]
	if host == "" || port == "" {
		return HostPort{}, fmt.Errorf("%w: bad proxy address %q", ErrMalformedSource, addr)
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return HostPort{}, fmt.Errorf("%w: bad proxy port in %q", ErrMalformedSource, addr)
		}
	}
	return HostPort{Host: host, Port: port}, nil
}
