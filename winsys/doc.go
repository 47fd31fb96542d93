// Package winsys wraps the low-level Windows facilities the proxy detectors
// read from: the registry, the WinHTTP proxy configuration calls, and the
// WMI device-management enrollment namespace. Most users should use the
// top-level proxydetect package, which adapts these primitives into
// detector collaborators automatically.
package winsys
