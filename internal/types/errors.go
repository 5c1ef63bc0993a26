package types

import (
	"cosmossdk.io/errors"
)

// Codespace groups the error codes registered by this module.
const Codespace = "orbit"

var (
	// ErrInvalidInstant is returned when a simulated date cannot be turned into a finite instant
	ErrInvalidInstant = errors.Register(Codespace, 2, "invalid simulated instant")
	// ErrInvalidElements is returned for non-finite or malformed orbital elements
	ErrInvalidElements = errors.Register(Codespace, 3, "invalid orbital elements")
	// ErrInvalidConfig is returned when the loaded configuration fails validation
	ErrInvalidConfig = errors.Register(Codespace, 4, "invalid configuration")
	// ErrUnknownPreset is returned when a named element preset does not exist
	ErrUnknownPreset = errors.Register(Codespace, 5, "unknown element preset")
	// ErrSnapshotSink is returned when a snapshot cannot be written
	ErrSnapshotSink = errors.Register(Codespace, 6, "snapshot sink failure")
)
