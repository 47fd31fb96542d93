package proxydetect

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/zhangyunhao116/proxydetect/internal/prefsparse"
)

// ProfileLocator resolves the active browser profile, an external concern
// owned by the embedding application. Implementations report a missing
// browser installation or profile with an error wrapping ErrSourceAbsent.
type ProfileLocator interface {
	// ActiveProfile returns the profile name and the path of its
	// preferences file.
	ActiveProfile() (name, path string, err error)
}

// Preference keys recognized in a Firefox prefs.js file.
const (
	prefProxyType     = "network.proxy.type"
	prefAutoConfigURL = "network.proxy.autoconfig_url"
	prefHTTPHost      = "network.proxy.http"
	prefHTTPPort      = "network.proxy.http_port"
	prefSSLHost       = "network.proxy.ssl"
	prefSSLPort       = "network.proxy.ssl_port"
)

// Bit flags of the network.proxy.type preference. AutoConfigURL and
// AutoDetect are not mutually exclusive in the source format.
const (
	firefoxTypeNoProxy       = 0
	firefoxTypeNamedProxy    = 1
	firefoxTypeAutoConfigURL = 2
	firefoxTypeAutoDetect    = 4
)

// prefsCache is the detector's one-entry staleness cache. It is replaced
// wholesale on every miss and never partially updated.
type prefsCache struct {
	name    string
	path    string
	modTime time.Time
	config  *ProxyConfig
}

// FirefoxDetector reads proxy configuration from the active Firefox
// profile's prefs.js file. Parsed results are cached per (profile, path) and
// revalidated against the file's modification time on every call, so
// repeated detection does not rescan the file.
//
// A FirefoxDetector is safe for concurrent use; the cache is guarded by a
// per-instance mutex.
type FirefoxDetector struct {
	locator ProfileLocator

	mu    sync.Mutex
	cache *prefsCache

	// Test seams; default to the os package.
	statFile func(string) (fs.FileInfo, error)
	openFile func(string) (io.ReadCloser, error)
}

// NewFirefoxDetector returns a detector over the given profile locator.
func NewFirefoxDetector(loc ProfileLocator) *FirefoxDetector {
	return &FirefoxDetector{
		locator:  loc,
		statFile: os.Stat,
		openFile: func(path string) (io.ReadCloser, error) { return os.Open(path) },
	}
}

// Source implements Detector.
func (d *FirefoxDetector) Source() string { return SourceFirefox }

// Detect implements Detector. A missing browser, profile or prefs file is an
// absent source. An unreadable prefs file is an I/O failure and the previous
// cache entry is deliberately not served in its place: the file only changes
// when the user changes proxy settings, so masking a read failure with stale
// data would hide drift.
func (d *FirefoxDetector) Detect() (*ProxyConfig, error) {
	name, path, err := d.locator.ActiveProfile()
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := d.statFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no prefs file at %s", ErrSourceAbsent, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIOFailure, path, err)
	}
	modTime := info.ModTime()

	if c := d.cache; c != nil && c.name == name && c.path == path && c.modTime.Equal(modTime) {
		return c.config.Clone(), nil
	}

	cfg, err := d.parsePrefsFile(path)
	if err != nil {
		return nil, err
	}
	d.cache = &prefsCache{name: name, path: path, modTime: modTime, config: cfg}
	return cfg.Clone(), nil
}

// parsePrefsFile scans the prefs file and interprets the accumulated proxy
// preferences. Unrecognized and malformed lines are skipped.
func (d *FirefoxDetector) parsePrefsFile(path string) (*ProxyConfig, error) {
	f, err := d.openFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIOFailure, path, err)
	}
	defer f.Close()

	var proxyType, configURL, httpHost, httpPort, sslHost, sslPort string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := prefsparse.Line(sc.Text())
		if !ok {
			continue
		}
		switch key {
		case prefProxyType:
			proxyType = value
		case prefAutoConfigURL:
			configURL = value
		case prefHTTPHost:
			httpHost = value
		case prefHTTPPort:
			httpPort = value
		case prefSSLHost:
			sslHost = value
		case prefSSLPort:
			sslPort = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrIOFailure, path, err)
	}

	ptype := firefoxTypeNoProxy
	if proxyType != "" {
		ptype, err = strconv.Atoi(proxyType)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s value %q", ErrMalformedSource, prefProxyType, proxyType)
		}
	}

	// The type field is bit-flag style and the AutoConfigURL and AutoDetect
	// bits may both be set. A PAC URL is actionable on its own while
	// AutoDetect alone is not, so the URL wins when present.
	switch {
	case ptype&firefoxTypeAutoConfigURL != 0 && configURL != "":
		return autoConfigURLConfig(SourceFirefox, configURL), nil
	case ptype&firefoxTypeAutoDetect != 0:
		return autoDetectConfig(SourceFirefox), nil
	case ptype&firefoxTypeNamedProxy != 0:
		return buildNamedConfig(httpHost, httpPort, sslHost, sslPort)
	default:
		return noProxyConfig(SourceFirefox), nil
	}
}

// buildNamedConfig combines per-scheme host and port preferences into a
// NamedProxy config. A host present for only one scheme serves both schemes;
// a host without its port is a malformed source.
func buildNamedConfig(httpHost, httpPort, sslHost, sslPort string) (*ProxyConfig, error) {
	if httpHost == "" && sslHost == "" {
		return nil, fmt.Errorf("%w: named proxy type without a proxy host", ErrMalformedSource)
	}
	if httpHost != "" && httpPort == "" {
		return nil, fmt.Errorf("%w: http proxy host %q without a port", ErrMalformedSource, httpHost)
	}
	if sslHost != "" && sslPort == "" {
		return nil, fmt.Errorf("%w: ssl proxy host %q without a port", ErrMalformedSource, sslHost)
	}
	httpHP := HostPort{Host: httpHost, Port: httpPort}
	sslHP := HostPort{Host: sslHost, Port: sslPort}
	if httpHP.IsZero() {
		httpHP = sslHP
	}
	if sslHP.IsZero() {
		sslHP = httpHP
	}
	return &ProxyConfig{
		Mode:       NamedProxy,
		HTTPProxy:  httpHP,
		HTTPSProxy: sslHP,
		Source:     SourceFirefox,
	}, nil
}
