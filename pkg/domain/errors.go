package domain

import "errors"

// ErrStateNotFound is returned by a StateStore when no blob exists for the requested key.
var ErrStateNotFound = errors.New("state not found")

// ErrMalformedState is returned when a persisted blob cannot be decoded into a SessionState.
var ErrMalformedState = errors.New("malformed persisted state")

// ErrTrackingUnavailable is returned when no pose can be computed for the requested time.
var ErrTrackingUnavailable = errors.New("tracking unavailable")

// ErrResourceAbsent is returned when a camera or grammar is not (or no longer) present.
var ErrResourceAbsent = errors.New("resource absent")

// ErrDeviceLost is returned by rendering adapters while the graphics device is lost.
var ErrDeviceLost = errors.New("device lost")

// ErrNoSpace is returned when an operation requires a holographic space and none is set.
var ErrNoSpace = errors.New("no holographic space")
