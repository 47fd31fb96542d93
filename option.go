package proxydetect

import (
	"log/slog"
)

// Option configures a Chain under construction.
type Option func(*chainOptions)

// chainOptions collects the configuration sources a chain should probe.
type chainOptions struct {
	override         *RegistryOverrideDetector
	updateDev        *UpdateDevDetector
	deviceManagement PolicySource
	groupPolicy      PolicySource
	system           SystemProxyQuery
	userStore        UserProxyQuery
	browser          ProfileLocator
	environment      bool
	extra            []Detector
	logger           *slog.Logger
}

// WithRegistryOverride probes an administrative override key in the given
// key/value store before any other source.
func WithRegistryOverride(store KeyValueStore, path string) Option {
	return func(o *chainOptions) {
		o.override = NewRegistryOverrideDetector(store, path)
	}
}

// WithUpdateDev probes the update-dev override key in the given store.
func WithUpdateDev(store KeyValueStore) Option {
	return func(o *chainOptions) {
		o.updateDev = NewUpdateDevDetector(store)
	}
}

// WithGroupPolicy probes a group-policy source.
func WithGroupPolicy(src PolicySource) Option {
	return func(o *chainOptions) {
		o.groupPolicy = src
	}
}

// WithDeviceManagement probes a device-management source. When both this and
// WithGroupPolicy are configured, device management is probed first.
func WithDeviceManagement(src PolicySource) Option {
	return func(o *chainOptions) {
		o.deviceManagement = src
	}
}

// WithSystemDefault probes the OS network-stack default configuration.
func WithSystemDefault(q SystemProxyQuery) Option {
	return func(o *chainOptions) {
		o.system = q
	}
}

// WithUserStore probes the per-user proxy store for WPAD, PAC URL and named
// proxy configuration, in that order.
func WithUserStore(q UserProxyQuery) Option {
	return func(o *chainOptions) {
		o.userStore = q
	}
}

// WithBrowser probes the browser configuration file of the profile resolved
// by loc.
func WithBrowser(loc ProfileLocator) Option {
	return func(o *chainOptions) {
		o.browser = loc
	}
}

// WithEnvironment probes the standard proxy environment variables
// (HTTP_PROXY, HTTPS_PROXY, NO_PROXY) as the lowest-priority source.
func WithEnvironment() Option {
	return func(o *chainOptions) {
		o.environment = true
	}
}

// WithDetector appends custom detectors after all built-in sources, in the
// order given.
func WithDetector(ds ...Detector) Option {
	cpy := append([]Detector(nil), ds...)
	return func(o *chainOptions) {
		o.extra = append(o.extra, cpy...)
	}
}

// WithLogger sets the logger used to report detector failures.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *chainOptions) {
		o.logger = l
	}
}
