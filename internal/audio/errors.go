// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import "fmt"

// Code classifies pipeline failures. Asynchronous faults (a device dying
// mid-capture, a decode error inside the playback loop) are delivered through
// listener callbacks carrying one of these codes; they are never raised as a
// panic from a goroutine the caller does not own.
type Code string

const (
	ErrPermissionDenied  Code = "permission_denied"
	ErrNotSupported      Code = "not_supported"
	ErrNoSupportedFormat Code = "no_supported_format"
	ErrDeviceError       Code = "device_error"
	ErrDecodeFailed      Code = "decode_failed"
	ErrNetworkError      Code = "network_error"
	ErrLoadTimeout       Code = "load_timeout"
)

// Error is the typed pipeline error surfaced through error callbacks and
// returned from synchronous entry points.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
