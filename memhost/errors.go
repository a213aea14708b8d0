// errors.go: structured errors for fixture loading
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memhost

import (
	"github.com/agilira/go-errors"
)

// Error codes for fixture handling (2300-2399)
const (
	ErrCodeFixtureRead    = "FIXTURE_2301"
	ErrCodeFixtureParse   = "FIXTURE_2302"
	ErrCodeFixtureInvalid = "FIXTURE_2303"
)

func NewFixtureReadError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeFixtureRead, "Fixture read error").
		WithUserMessage("Failed to read fixture file").
		WithContext("fixture_path", path).
		WithSeverity("error")
}

func NewFixtureParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeFixtureParse, "Fixture parse error").
		WithUserMessage("Failed to parse fixture file").
		WithContext("fixture_path", path).
		WithSeverity("error")
}

func NewFixtureInvalidError(message string) *errors.Error {
	return errors.New(ErrCodeFixtureInvalid, "Invalid fixture: "+message).
		WithUserMessage("The fixture describes an inconsistent host state").
		WithSeverity("error")
}
