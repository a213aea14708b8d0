// errors.go: structured error definitions for go-weechat
//
// The hdata layer itself never returns errors: absent variables, unknown
// schemas and failed traversals are reported as a false second value, and
// partial writes as the literal update count. Errors are reserved for the
// surrounding surfaces (configuration, dispatcher, nicklist).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

import (
	"time"

	"github.com/agilira/go-errors"
)

// Error codes for the go-weechat system
const (
	// Configuration errors (1700-1799)
	ErrCodeConfigNotFound        = "CONFIG_1701"
	ErrCodeConfigParseError      = "CONFIG_1702"
	ErrCodeConfigValidationError = "CONFIG_1703"

	// Dispatcher errors (2100-2199)
	ErrCodeDispatcherClosed    = "DISPATCH_2101"
	ErrCodeDispatcherQueueFull = "DISPATCH_2102"
	ErrCodeDispatcherTimeout   = "DISPATCH_2103"
	ErrCodeDispatcherPanic     = "DISPATCH_2104"

	// Host errors (2200-2299)
	ErrCodeNickCreation = "HOST_2201"
)

// Configuration error constructors

func NewConfigNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeConfigNotFound, "Configuration file not found").
		WithUserMessage("The configuration file could not be found").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigParseError, "Configuration parse error").
		WithUserMessage("Failed to parse configuration file").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigValidationError(message string, cause error) *errors.Error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeConfigValidationError, "Configuration validation error: "+message).
			WithUserMessage("Configuration validation failed").
			WithSeverity("error")
	}
	return errors.New(ErrCodeConfigValidationError, "Configuration validation error: "+message).
		WithUserMessage("Configuration validation failed").
		WithSeverity("error")
}

// Dispatcher error constructors

func NewDispatcherClosedError() *errors.Error {
	return errors.New(ErrCodeDispatcherClosed, "Dispatcher closed").
		WithUserMessage("The main-context dispatcher no longer accepts work").
		WithSeverity("error")
}

func NewDispatcherQueueFullError(capacity int) *errors.Error {
	return errors.New(ErrCodeDispatcherQueueFull, "Dispatcher queue full").
		WithUserMessage("Too much work is waiting for the main context").
		WithContext("queue_size", capacity).
		WithSeverity("warning").
		AsRetryable()
}

func NewDispatcherTimeoutError(timeout time.Duration, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeDispatcherTimeout, "Main-context call timed out").
		WithUserMessage("The main context did not run the call in time").
		WithContext("timeout", timeout.String()).
		WithSeverity("error").
		AsRetryable()
}

func NewDispatcherPanicError(recovered any) *errors.Error {
	return errors.New(ErrCodeDispatcherPanic, "Main-context call panicked").
		WithUserMessage("A function run on the main context panicked").
		WithContext("panic", recovered).
		WithSeverity("error")
}

// Host error constructors

func NewNickCreationError(name string) *errors.Error {
	return errors.New(ErrCodeNickCreation, "Nick creation failed").
		WithUserMessage("The host refused to add the nick").
		WithContext("nick", name).
		WithSeverity("error")
}
