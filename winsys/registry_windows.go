//go:build windows

package winsys

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/windows/registry"
)

// ReadMachineString reads a string value under HKEY_LOCAL_MACHINE.
// A missing key or value is reported as ErrNotExist.
func ReadMachineString(path, name string) (string, error) {
	return readString(registry.LOCAL_MACHINE, path, name)
}

// ReadUserString reads a string value under HKEY_CURRENT_USER.
// A missing key or value is reported as ErrNotExist.
func ReadUserString(path, name string) (string, error) {
	return readString(registry.CURRENT_USER, path, name)
}

// MachineKeyExists reports whether a key exists under HKEY_LOCAL_MACHINE.
func MachineKeyExists(path string) (bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, mapRegistryErr(err, path, "")
	}
	k.Close()
	return true, nil
}

func readString(root registry.Key, path, name string) (string, error) {
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return "", mapRegistryErr(err, path, name)
	}
	defer k.Close()
	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", mapRegistryErr(err, path, name)
	}
	return v, nil
}

func mapRegistryErr(err error, path, name string) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return fmt.Errorf(`%w: %s\%s`, ErrNotExist, path, name)
	case errors.Is(err, syscall.ERROR_ACCESS_DENIED):
		return fmt.Errorf(`%w: %s\%s`, ErrAccessDenied, path, name)
	default:
		return fmt.Errorf(`registry %s\%s: %w`, path, name, err)
	}
}
