package proxydetect

// SystemProxyQuery reads the OS network stack's machine-wide default proxy
// configuration, e.g. what proxycfg.exe set for WinHTTP. Implementations
// report an unconfigured stack with an error wrapping ErrSourceAbsent.
type SystemProxyQuery interface {
	// Default returns the machine-wide default configuration.
	Default() (*ProxyConfig, error)
}

// UserProxyQuery reads the per-user proxy store, split by configuration
// class. It operates only on behalf of the current security context;
// implementations invoked outside that context must return an error wrapping
// ErrContextMismatch rather than data belonging to a different user.
type UserProxyQuery interface {
	// AutoDetect reports the WPAD setting.
	AutoDetect() (*ProxyConfig, error)

	// AutoConfigURL reports the PAC script setting.
	AutoConfigURL() (*ProxyConfig, error)

	// Named reports the manually configured proxy servers.
	Named() (*ProxyConfig, error)
}

// DefaultSystemDetector surfaces the OS network-stack default configuration.
type DefaultSystemDetector struct {
	q SystemProxyQuery
}

// NewDefaultSystemDetector returns a detector over the given query.
func NewDefaultSystemDetector(q SystemProxyQuery) *DefaultSystemDetector {
	return &DefaultSystemDetector{q: q}
}

// Source implements Detector.
func (d *DefaultSystemDetector) Source() string { return SourceWinHTTP }

// Detect implements Detector.
func (d *DefaultSystemDetector) Detect() (*ProxyConfig, error) {
	return d.q.Default()
}

// userStoreClass selects which configuration class a user-store detector
// requests.
type userStoreClass int

const (
	classAutoDetect userStoreClass = iota
	classAutoConfig
	classNamed
)

// userStoreDetector is the shared base for the three per-user store
// detectors. They differ only in the requested class and source label.
type userStoreDetector struct {
	q      UserProxyQuery
	class  userStoreClass
	source string
}

// NewAutoDetectDetector returns a detector for the user's WPAD setting.
func NewAutoDetectDetector(q UserProxyQuery) Detector {
	return &userStoreDetector{q: q, class: classAutoDetect, source: SourceIEWPAD}
}

// NewAutoConfigDetector returns a detector for the user's PAC script setting.
func NewAutoConfigDetector(q UserProxyQuery) Detector {
	return &userStoreDetector{q: q, class: classAutoConfig, source: SourceIEPAC}
}

// NewNamedDetector returns a detector for the user's manual proxy setting.
func NewNamedDetector(q UserProxyQuery) Detector {
	return &userStoreDetector{q: q, class: classNamed, source: SourceIENamed}
}

func (d *userStoreDetector) Source() string { return d.source }

// Detect implements Detector.
func (d *userStoreDetector) Detect() (*ProxyConfig, error) {
	switch d.class {
	case classAutoConfig:
		return d.q.AutoConfigURL()
	case classNamed:
		return d.q.Named()
	default:
		return d.q.AutoDetect()
	}
}
