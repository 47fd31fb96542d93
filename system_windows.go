//go:build windows

package proxydetect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zhangyunhao116/proxydetect/winsys"
)

// Registry key paths probed by the system chain.
const (
	// GroupPolicyKeyPath holds administrator-managed proxy policy values.
	GroupPolicyKeyPath = `SOFTWARE\Policies\Update`

	// DeviceManagementKeyPath holds the proxy policy values cached from the
	// device-management service.
	DeviceManagementKeyPath = `SOFTWARE\Policies\Update\DeviceManagement`
)

// Policy value names under a policy key.
const (
	policyModeValueName   = "ProxyMode"
	policyPacURLValueName = "ProxyPacUrl"
	policyServerValueName = "ProxyServer"
)

// MachineStore is a KeyValueStore over string values beneath
// HKEY_LOCAL_MACHINE.
type MachineStore struct{}

// ReadString implements KeyValueStore.
func (MachineStore) ReadString(path, name string) (string, error) {
	v, err := winsys.ReadMachineString(path, name)
	if err != nil {
		return "", mapStoreErr(err)
	}
	return v, nil
}

// registryPolicySource reads the PolicySource capability set from a policy
// registry key. With requireEnrollment set it additionally requires the
// device to be enrolled with a device-management service, which is what
// distinguishes the device-management backend from the group-policy one.
type registryPolicySource struct {
	path              string
	requireEnrollment bool
}

// NewGroupPolicySource returns the group-policy backend for this machine.
func NewGroupPolicySource() PolicySource {
	return &registryPolicySource{path: GroupPolicyKeyPath}
}

// NewDeviceManagementSource returns the device-management backend for this
// machine.
func NewDeviceManagementSource() PolicySource {
	return &registryPolicySource{path: DeviceManagementKeyPath, requireEnrollment: true}
}

func (s *registryPolicySource) IsManaged() (bool, error) {
	if s.requireEnrollment {
		enrolled, err := winsys.MDMEnrolled()
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		if !enrolled {
			return false, nil
		}
	}
	exists, err := winsys.MachineKeyExists(s.path)
	if err != nil {
		return false, mapStoreErr(err)
	}
	return exists, nil
}

func (s *registryPolicySource) ProxyMode() (string, error) {
	return MachineStore{}.ReadString(s.path, policyModeValueName)
}

func (s *registryPolicySource) ProxyPacURL() (string, error) {
	return MachineStore{}.ReadString(s.path, policyPacURLValueName)
}

func (s *registryPolicySource) ProxyServer() (string, error) {
	return MachineStore{}.ReadString(s.path, policyServerValueName)
}

// WinHTTPQuery reads the WinHTTP proxy facilities. It implements both
// SystemProxyQuery (machine-wide default) and UserProxyQuery (per-user
// wininet store).
type WinHTTPQuery struct{}

// NewWinHTTPQuery returns a query over the WinHTTP configuration calls.
func NewWinHTTPQuery() *WinHTTPQuery {
	return &WinHTTPQuery{}
}

// Default implements SystemProxyQuery.
func (*WinHTTPQuery) Default() (*ProxyConfig, error) {
	dp, err := winsys.ReadDefaultProxy()
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if dp.AccessType != winsys.AccessTypeNamedProxy || dp.Proxy == "" {
		return nil, fmt.Errorf("%w: no machine-wide proxy set", ErrSourceAbsent)
	}
	cfg, err := ParseProxyServer(dp.Proxy)
	if err != nil {
		return nil, err
	}
	cfg.BypassList = splitBypassList(dp.Bypass)
	return cfg, nil
}

// AutoDetect implements UserProxyQuery.
func (*WinHTTPQuery) AutoDetect() (*ProxyConfig, error) {
	ie, err := readIEProxy()
	if err != nil {
		return nil, err
	}
	if !ie.AutoDetect {
		return nil, fmt.Errorf("%w: WPAD not enabled", ErrSourceAbsent)
	}
	return autoDetectConfig(SourceIEWPAD), nil
}

// AutoConfigURL implements UserProxyQuery.
func (*WinHTTPQuery) AutoConfigURL() (*ProxyConfig, error) {
	ie, err := readIEProxy()
	if err != nil {
		return nil, err
	}
	if ie.AutoConfigURL == "" {
		return nil, fmt.Errorf("%w: no PAC URL set", ErrSourceAbsent)
	}
	return autoConfigURLConfig(SourceIEPAC, ie.AutoConfigURL), nil
}

// Named implements UserProxyQuery.
func (*WinHTTPQuery) Named() (*ProxyConfig, error) {
	ie, err := readIEProxy()
	if err != nil {
		return nil, err
	}
	if ie.Proxy == "" {
		return nil, fmt.Errorf("%w: no manual proxy set", ErrSourceAbsent)
	}
	cfg, err := ParseProxyServer(ie.Proxy)
	if err != nil {
		return nil, err
	}
	cfg.BypassList = splitBypassList(ie.Bypass)
	return cfg, nil
}

// readIEProxy reads the per-user store, mapping an access failure to a
// context mismatch: the store belongs to the impersonated user, and reading
// it from the wrong context must fail rather than return another user's data.
func readIEProxy() (*winsys.IEProxy, error) {
	ie, err := winsys.ReadIEProxy()
	if err != nil {
		if errors.Is(err, winsys.ErrAccessDenied) {
			return nil, fmt.Errorf("%w: %v", ErrContextMismatch, err)
		}
		return nil, mapStoreErr(err)
	}
	return ie, nil
}

// splitBypassList splits a WinHTTP bypass declaration, which separates
// entries with semicolons or whitespace.
func splitBypassList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t'
	})
}

// mapStoreErr translates winsys errors into the package taxonomy.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, winsys.ErrNotExist), errors.Is(err, winsys.ErrNotConfigured):
		return fmt.Errorf("%w: %v", ErrSourceAbsent, err)
	case errors.Is(err, winsys.ErrAccessDenied):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
}

// NewSystemChain builds the full Windows detector chain: update-dev
// override, device-management and group-policy, the WinHTTP default, the
// per-user store, and the Firefox profile. Additional options are applied
// after the system defaults.
func NewSystemChain(opts ...Option) (*Chain, error) {
	q := NewWinHTTPQuery()
	base := []Option{
		WithUpdateDev(MachineStore{}),
		WithDeviceManagement(NewDeviceManagementSource()),
		WithGroupPolicy(NewGroupPolicySource()),
		WithSystemDefault(q),
		WithUserStore(q),
		WithBrowser(&DefaultProfileLocator{}),
	}
	return NewChain(append(base, opts...)...)
}
