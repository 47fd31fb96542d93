package proxydetect

import (
	"fmt"
)

// unknownStr is returned by String methods for out-of-range enum values.
const unknownStr = "unknown"

// Mode identifies the proxy strategy a configuration source declares.
// Exactly one mode is active per ProxyConfig.
type Mode int

const (
	// NoProxy means the source explicitly declares a direct connection.
	NoProxy Mode = iota

	// AutoDetect means the proxy should be discovered via WPAD.
	AutoDetect

	// AutoConfigURL means a PAC script URL is configured.
	AutoConfigURL

	// NamedProxy means one or more fixed proxy servers are configured.
	NamedProxy
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case NoProxy:
		return "no_proxy"
	case AutoDetect:
		return "auto_detect"
	case AutoConfigURL:
		return "auto_config_url"
	case NamedProxy:
		return "named_proxy"
	default:
		return unknownStr
	}
}

// HostPort is a proxy endpoint. The zero value means "not set".
type HostPort struct {
	Host string
	Port string
}

// IsZero reports whether the endpoint is unset.
func (h HostPort) IsZero() bool {
	return h.Host == "" && h.Port == ""
}

// String returns "host:port", or just the host when no port is set.
func (h HostPort) String() string {
	if h.Port == "" {
		return h.Host
	}
	return h.Host + ":" + h.Port
}

// ProxyConfig is the result of a successful detection. It is a value object:
// detectors create a fresh instance per call and never mutate it afterwards.
//
// The fields other than Mode are meaningful only under the mode that declares
// them: AutoConfigURL iff Mode is AutoConfigURL, HTTPProxy/HTTPSProxy iff
// Mode is NamedProxy.
type ProxyConfig struct {
	// Mode is the proxy strategy the source declares.
	Mode Mode

	// AutoConfigURL is the PAC script location, set iff Mode is AutoConfigURL.
	AutoConfigURL string

	// HTTPProxy is the proxy endpoint for plain HTTP traffic.
	HTTPProxy HostPort

	// HTTPSProxy is the proxy endpoint for TLS traffic.
	HTTPSProxy HostPort

	// BypassList holds host patterns exempted from proxying, in source order.
	BypassList []string

	// Source is the label of the detector that produced this value. It is
	// diagnostic only and never affects precedence.
	Source string
}

// Clone returns a deep copy. Detectors that cache a ProxyConfig hand out
// clones so callers can never observe cache mutation.
func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	cpy := *c
	cpy.BypassList = append([]string(nil), c.BypassList...)
	return &cpy
}

// ProxyString renders the named-proxy configuration as a single proxy server
// string. When the HTTP and HTTPS endpoints are identical one "host:port"
// entry is emitted; when they differ, a scheme-qualified composite in the
// WinHTTP proxy-list syntax is emitted ("http=host:port;https=host:port").
// An endpoint set for only one scheme serves both. Returns "" for modes other
// than NamedProxy.
func (c *ProxyConfig) ProxyString() string {
	if c == nil || c.Mode != NamedProxy {
		return ""
	}
	httpp, httpsp := c.HTTPProxy, c.HTTPSProxy
	switch {
	case httpp.IsZero() && httpsp.IsZero():
		return ""
	case httpp.IsZero():
		return httpsp.String()
	case httpsp.IsZero():
		return httpp.String()
	case httpp == httpsp:
		return httpp.String()
	default:
		return fmt.Sprintf("http=%s;https=%s", httpp.String(), httpsp.String())
	}
}

// noProxyConfig returns a fresh explicit-direct-connection result.
func noProxyConfig(source string) *ProxyConfig {
	return &ProxyConfig{Mode: NoProxy, Source: source}
}

// autoDetectConfig returns a fresh WPAD result.
func autoDetectConfig(source string) *ProxyConfig {
	return &ProxyConfig{Mode: AutoDetect, Source: source}
}

// autoConfigURLConfig returns a fresh PAC-URL result.
func autoConfigURLConfig(source, url string) *ProxyConfig {
	return &ProxyConfig{Mode: AutoConfigURL, AutoConfigURL: url, Source: source}
}
