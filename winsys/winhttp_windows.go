//go:build windows

package winsys

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// WinHTTP access types reported in DefaultProxy.AccessType.
const (
	AccessTypeDefaultProxy = 0
	AccessTypeNoProxy      = 1
	AccessTypeNamedProxy   = 3
)

var (
	winhttp = windows.NewLazySystemDLL("winhttp.dll")

	procGetDefaultProxyConfiguration   = winhttp.NewProc("WinHttpGetDefaultProxyConfiguration")
	procGetIEProxyConfigForCurrentUser = winhttp.NewProc("WinHttpGetIEProxyConfigForCurrentUser")
)

// proxyInfo mirrors WINHTTP_PROXY_INFO.
type proxyInfo struct {
	accessType  uint32
	proxy       *uint16
	proxyBypass *uint16
}

// ieProxyConfig mirrors WINHTTP_CURRENT_USER_IE_PROXY_CONFIG.
type ieProxyConfig struct {
	autoDetect    int32
	autoConfigURL *uint16
	proxy         *uint16
	proxyBypass   *uint16
}

// DefaultProxy holds the machine-wide WinHTTP proxy settings, i.e. what
// proxycfg.exe or netsh winhttp has configured.
type DefaultProxy struct {
	AccessType uint32
	Proxy      string
	Bypass     string
}

// IEProxy holds the per-user proxy settings WinHTTP reads from the wininet
// store. The values are only meaningful when the caller runs as, or
// impersonates, the user in question.
type IEProxy struct {
	AutoDetect    bool
	AutoConfigURL string
	Proxy         string
	Bypass        string
}

// ReadDefaultProxy queries WinHttpGetDefaultProxyConfiguration.
func ReadDefaultProxy() (*DefaultProxy, error) {
	var info proxyInfo
	ret, _, errno := procGetDefaultProxyConfiguration.Call(uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return nil, mapWinHTTPErr("WinHttpGetDefaultProxyConfiguration", errno)
	}
	out := &DefaultProxy{
		AccessType: info.accessType,
		Proxy:      takeString(info.proxy),
		Bypass:     takeString(info.proxyBypass),
	}
	return out, nil
}

// ReadIEProxy queries WinHttpGetIEProxyConfigForCurrentUser.
func ReadIEProxy() (*IEProxy, error) {
	var cfg ieProxyConfig
	ret, _, errno := procGetIEProxyConfigForCurrentUser.Call(uintptr(unsafe.Pointer(&cfg)))
	if ret == 0 {
		return nil, mapWinHTTPErr("WinHttpGetIEProxyConfigForCurrentUser", errno)
	}
	out := &IEProxy{
		AutoDetect:    cfg.autoDetect != 0,
		AutoConfigURL: takeString(cfg.autoConfigURL),
		Proxy:         takeString(cfg.proxy),
		Bypass:        takeString(cfg.proxyBypass),
	}
	return out, nil
}

// takeString copies a WinHTTP-allocated wide string and frees the original.
func takeString(p *uint16) string {
	if p == nil {
		return ""
	}
	s := windows.UTF16PtrToString(p)
	windows.GlobalFree(windows.Handle(uintptr(unsafe.Pointer(p))))
	return s
}

func mapWinHTTPErr(call string, errno error) error {
	var e syscall.Errno
	if errors.As(errno, &e) {
		switch e {
		case syscall.ERROR_FILE_NOT_FOUND:
			return fmt.Errorf("%w: %s", ErrNotConfigured, call)
		case syscall.ERROR_ACCESS_DENIED:
			return fmt.Errorf("%w: %s", ErrAccessDenied, call)
		}
	}
	return fmt.Errorf("%s: %v", call, errno)
}
