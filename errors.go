// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mfrc522

import (
	"errors"
	"fmt"
	"io"
)

// Error categories for better error handling and retry logic
var (
	// Protocol errors - the reader answered, the exchange failed
	ErrNoResponse     = errors.New("no response from reader")
	ErrNoTag          = errors.New("no tag in field")
	ErrDevice         = errors.New("reader signalled a protocol error")
	ErrChecksum       = errors.New("UID checksum mismatch")
	ErrResponseLength = errors.New("unexpected response length")
	ErrAuthFailed     = errors.New("authentication rejected by tag")
	ErrWriteRejected  = errors.New("tag rejected block write")

	// Bus errors - potentially retryable
	ErrBusWrite  = errors.New("bus write failed")
	ErrBusRead   = errors.New("bus read failed")
	ErrBusClosed = errors.New("bus is closed")
	ErrBusEcho   = errors.New("bus address echo mismatch")

	// Data errors - not retryable
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDataTooLarge     = errors.New("data too large")
)

// ErrorType represents the category of error for retry logic
type ErrorType int

const (
	// ErrorTypeTransient indicates a potentially retryable error
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates a non-retryable error
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout error (special handling)
	ErrorTypeTimeout
)

// BusError wraps bus-level errors with additional context
type BusError struct {
	Err       error     // Underlying error
	Op        string    // Operation that failed
	Port      string    // Port or device identifier
	Type      ErrorType // Error category
	Retryable bool      // Whether the error is retryable
}

func (e *BusError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// NewBusError creates a standard bus error with consistent formatting
func NewBusError(op, port string, err error, errType ErrorType) *BusError {
	return &BusError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewBusWriteError creates a write error (transient)
func NewBusWriteError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusWrite, ErrorTypeTransient)
}

// NewBusReadError creates a read error (transient)
func NewBusReadError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusRead, ErrorTypeTransient)
}

// NewBusClosedError creates a bus closed error (permanent)
func NewBusClosedError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusClosed, ErrorTypePermanent)
}

// NewBusEchoError creates an address echo mismatch error (transient)
func NewBusEchoError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusEcho, ErrorTypeTransient)
}

// IsRetryable returns true if the error is potentially retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Retryable
	}

	// A silent or absent card recovers on the next acquisition cycle;
	// protocol faults within an exchange do not.
	switch {
	case errors.Is(err, ErrNoResponse),
		errors.Is(err, ErrNoTag),
		errors.Is(err, ErrBusRead),
		errors.Is(err, ErrBusWrite),
		errors.Is(err, ErrBusEcho):
		return true
	default:
		return false
	}
}

// IsFatal returns true if the error indicates the bus/reader is gone and
// polling should stop entirely. This is distinct from IsRetryable which
// indicates whether a single operation can be retried.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Type == ErrorTypePermanent
	}

	switch {
	case errors.Is(err, ErrBusClosed),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe):
		return true
	default:
		return false
	}
}
