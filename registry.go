package proxydetect

import (
	"fmt"
	"strconv"
	"strings"
)

// UpdateDevKeyPath is the key probed by the update-dev override detector.
const UpdateDevKeyPath = `SOFTWARE\UpdateDev`

// Value names read from an override key.
const (
	proxyHostValueName = "proxy_host"
	proxyPortValueName = "proxy_port"
)

// KeyValueStore is a narrow read-only view of a registry-style store, owned
// by the embedding application. Implementations report a missing key or value
// with an error wrapping ErrSourceAbsent.
type KeyValueStore interface {
	// ReadString reads the named string value under the given key path.
	ReadString(path, name string) (string, error)
}

// RegistryOverrideDetector picks up an administrative proxy override from a
// registry-style key holding proxy_host and proxy_port string values.
type RegistryOverrideDetector struct {
	store KeyValueStore
	path  string
}

// NewRegistryOverrideDetector returns a detector probing the given key path.
func NewRegistryOverrideDetector(store KeyValueStore, path string) *RegistryOverrideDetector {
	return &RegistryOverrideDetector{store: store, path: path}
}

// Source implements Detector.
func (d *RegistryOverrideDetector) Source() string { return SourceRegistryOverride }

// Detect implements Detector. A key without a proxy_host value is an absent
// source; a host without a usable port is a malformed one.
func (d *RegistryOverrideDetector) Detect() (*ProxyConfig, error) {
	host, err := d.store.ReadString(d.path, proxyHostValueName)
	if err != nil {
		return nil, err
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, fmt.Errorf("%w: empty %s under %s", ErrSourceAbsent, proxyHostValueName, d.path)
	}
	port, err := d.store.ReadString(d.path, proxyPortValueName)
	if err != nil {
		if absent(err) {
			return nil, fmt.Errorf("%w: %s set but %s missing under %s",
				ErrMalformedSource, proxyHostValueName, proxyPortValueName, d.path)
		}
		return nil, err
	}
	port = strings.TrimSpace(port)
	if n, perr := strconv.Atoi(port); perr != nil || n < 1 || n > 65535 {
		return nil, fmt.Errorf("%w: bad %s %q under %s",
			ErrMalformedSource, proxyPortValueName, port, d.path)
	}
	hp := HostPort{Host: host, Port: port}
	return &ProxyConfig{
		Mode:       NamedProxy,
		HTTPProxy:  hp,
		HTTPSProxy: hp,
	}, nil
}

// UpdateDevDetector picks up the proxy override developers set under the
// update-dev key. It is a registry override at a fixed path with its own
// source label.
type UpdateDevDetector struct {
	registry *RegistryOverrideDetector
}

// NewUpdateDevDetector returns a detector probing UpdateDevKeyPath in store.
func NewUpdateDevDetector(store KeyValueStore) *UpdateDevDetector {
	return &UpdateDevDetector{registry: NewRegistryOverrideDetector(store, UpdateDevKeyPath)}
}

// Source implements Detector.
func (d *UpdateDevDetector) Source() string { return SourceUpdateDev }

// Detect implements Detector.
func (d *UpdateDevDetector) Detect() (*ProxyConfig, error) {
	return d.registry.Detect()
}
