//go:build windows

package winsys

import (
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// mdmBridgeNamespace is the WMI namespace the MDM agent registers on
// enrollment. It is absent on unenrolled devices.
const mdmBridgeNamespace = `root\cimv2\mdm\dmmap`

// HRESULTs CoInitializeEx may report when COM is already initialized on the
// calling thread; go-ole surfaces S_FALSE as an error.
const (
	hresultOK     = 0x00000000
	hresultSFalse = 0x00000001
)

// MDMEnrolled reports whether the device is enrolled with a device-management
// service, by connecting to the MDM bridge WMI namespace. The namespace only
// exists on enrolled devices, so a failed connect means "not enrolled".
func MDMEnrolled() (bool, error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		oleErr, ok := err.(*ole.OleError)
		if !ok || (oleErr.Code() != hresultOK && oleErr.Code() != hresultSFalse) {
			return false, fmt.Errorf("winsys: CoInitializeEx: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return false, fmt.Errorf("winsys: create SWbemLocator: %w", err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return false, fmt.Errorf("winsys: SWbemLocator IDispatch: %w", err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, mdmBridgeNamespace)
	if err != nil {
		return false, nil
	}
	serviceRaw.ToIDispatch().Release()
	return true, nil
}
