package proxydetect

// Detector attempts to produce a ProxyConfig from one specific configuration
// source.
//
// Detect returns the discovered configuration, or an error wrapping
// ErrSourceAbsent when the source is not applicable or not configured.
// Missing or malformed external data is always reported through the error
// return; Detect never panics on it. Implementations must be safe for
// repeated and concurrent calls.
type Detector interface {
	// Detect queries the source and returns its declared configuration.
	Detect() (*ProxyConfig, error)

	// Source returns a constant label identifying the source, used for
	// diagnostics only.
	Source() string
}

// Source labels for the built-in detectors.
const (
	SourceRegistryOverride = "RegistryOverride"
	SourceUpdateDev        = "UpdateDev"
	SourceGroupPolicy      = "GroupPolicy"
	SourceDeviceManagement = "DeviceManagement"
	SourceWinHTTP          = "WinHTTP"
	SourceIEWPAD           = "IEWPAD"
	SourceIEPAC            = "IEPAC"
	SourceIENamed          = "IENamed"
	SourceFirefox          = "Firefox"
	SourceEnvironment      = "Environment"
)
