package core

import (
	"errors"
)

var (
	ErrInitFailed        = errors.New("renderer initialization failed")
	ErrDeviceUnsupported = errors.New("unsupported device")
	ErrDeviceShutdown    = errors.New("device already shut down")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnknownType       = errors.New("unknown object type")
	ErrNotCommitted      = errors.New("object used before commit")
	ErrReleased          = errors.New("object used after its last release")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrTypeMismatch      = errors.New("data type mismatch")
	ErrNotMapped         = errors.New("frame buffer view is not mapped")
	ErrChannelDisabled   = errors.New("frame buffer channel not enabled")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrUnknown           = errors.New("unknown")
)
