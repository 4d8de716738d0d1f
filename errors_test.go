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

package mfrc522_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "no response retryable", err: mfrc522.ErrNoResponse, want: true},
		{name: "no tag retryable", err: mfrc522.ErrNoTag, want: true},
		{name: "wrapped no tag retryable", err: fmt.Errorf("request: %w", mfrc522.ErrNoTag), want: true},
		{name: "bus read retryable", err: mfrc522.ErrBusRead, want: true},
		{name: "bus write retryable", err: mfrc522.ErrBusWrite, want: true},
		{name: "echo mismatch retryable", err: mfrc522.ErrBusEcho, want: true},
		{name: "device error not retryable", err: mfrc522.ErrDevice, want: false},
		{name: "checksum mismatch not retryable", err: mfrc522.ErrChecksum, want: false},
		{name: "auth failure not retryable", err: mfrc522.ErrAuthFailed, want: false},
		{name: "write rejection not retryable", err: mfrc522.ErrWriteRejected, want: false},
		{name: "invalid parameter not retryable", err: mfrc522.ErrInvalidParameter, want: false},
		{
			name: "transient bus error retryable",
			err:  mfrc522.NewBusReadError("ReadRegister", "/dev/spidev0.0"),
			want: true,
		},
		{
			name: "closed bus not retryable",
			err:  mfrc522.NewBusClosedError("WriteRegister", "/dev/spidev0.0"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mfrc522.IsRetryable(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "bus closed fatal", err: mfrc522.ErrBusClosed, want: true},
		{name: "EOF fatal", err: io.EOF, want: true},
		{name: "closed pipe fatal", err: io.ErrClosedPipe, want: true},
		{name: "no tag not fatal", err: mfrc522.ErrNoTag, want: false},
		{name: "device error not fatal", err: mfrc522.ErrDevice, want: false},
		{
			name: "closed bus error fatal",
			err:  mfrc522.NewBusClosedError("WriteRegister", "/dev/ttyUSB0"),
			want: true,
		},
		{
			name: "transient bus error not fatal",
			err:  mfrc522.NewBusWriteError("WriteRegister", "/dev/ttyUSB0"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mfrc522.IsFatal(tt.err))
		})
	}
}

func TestBusError(t *testing.T) {
	t.Parallel()

	t.Run("message includes operation and port", func(t *testing.T) {
		t.Parallel()
		err := mfrc522.NewBusWriteError("WriteRegister", "/dev/spidev0.0")
		assert.Equal(t, "WriteRegister /dev/spidev0.0: bus write failed", err.Error())
	})

	t.Run("message without port", func(t *testing.T) {
		t.Parallel()
		err := mfrc522.NewBusReadError("ReadRegister", "")
		assert.Equal(t, "ReadRegister: bus read failed", err.Error())
	})

	t.Run("unwraps to sentinel", func(t *testing.T) {
		t.Parallel()
		err := mfrc522.NewBusEchoError("WriteRegister", "/dev/ttyUSB0")
		require.ErrorIs(t, err, mfrc522.ErrBusEcho)

		var be *mfrc522.BusError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "WriteRegister", be.Op)
		assert.True(t, be.Retryable)
	})

	t.Run("wrapped in operation context", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("request: %w", mfrc522.NewBusClosedError("WriteRegister", "virtual"))
		assert.True(t, errors.Is(err, mfrc522.ErrBusClosed))
		assert.True(t, mfrc522.IsFatal(err))
	})
}
