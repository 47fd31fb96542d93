package winsys

import (
	"errors"
)

// Sentinel errors returned by the winsys package.
var (
	// ErrNotExist indicates a registry key or value does not exist.
	ErrNotExist = errors.New("winsys: key or value does not exist")

	// ErrNotConfigured indicates the queried proxy facility holds no
	// configuration.
	ErrNotConfigured = errors.New("winsys: proxy facility not configured")

	// ErrAccessDenied indicates the caller lacks the privilege for the query.
	ErrAccessDenied = errors.New("winsys: access denied")
)
