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
	"context"
	"testing"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	testutil "github.com/ZaparooProject/go-mfrc522/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDevice creates an initialized device on a register simulator.
// Timeouts are cut down so silent-card paths fail fast.
func newTestDevice(t *testing.T) (*mfrc522.Device, *testutil.VirtualMFRC522) {
	t.Helper()
	sim := testutil.NewVirtualMFRC522()
	device, err := mfrc522.New(sim,
		mfrc522.WithTimeout(5*time.Millisecond),
		mfrc522.WithCRCTimeout(5*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, device.Init())
	return device, sim
}

func newTestCard() *testutil.VirtualCard {
	return testutil.NewMIFARE1K([4]byte{0x11, 0x22, 0x33, 0x44})
}

func TestRequest(t *testing.T) {
	t.Parallel()

	t.Run("card in field answers with ATQA", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		atqa, err := device.Request(context.Background(), mfrc522.RequestIdle)
		require.NoError(t, err)
		assert.Equal(t, [2]byte{0x04, 0x00}, atqa)
		assert.Equal(t, "MIFARE Classic 1K", mfrc522.TagTypeName(atqa))
	})

	t.Run("empty field reports no tag", func(t *testing.T) {
		t.Parallel()
		device, _ := newTestDevice(t)

		_, err := device.Request(context.Background(), mfrc522.RequestIdle)
		require.ErrorIs(t, err, mfrc522.ErrNoTag)
		assert.True(t, mfrc522.IsRetryable(err))
	})

	t.Run("halted card ignores idle request", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		card.Halted = true
		sim.SetCard(card)

		_, err := device.Request(context.Background(), mfrc522.RequestIdle)
		require.ErrorIs(t, err, mfrc522.ErrNoTag)
	})

	t.Run("wakeup request revives halted card", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		card.Halted = true
		sim.SetCard(card)

		atqa, err := device.Request(context.Background(), mfrc522.RequestAll)
		require.NoError(t, err)
		assert.Equal(t, card.ATQA, atqa)
		assert.False(t, card.Halted)
	})
}

func TestAntiCollision(t *testing.T) {
	t.Parallel()

	t.Run("returns resolved UID", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		uid, err := device.AntiCollision(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, uid)
	})

	t.Run("corrupted check byte fails", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		bad := byte(0x5A)
		card.BCCOverride = &bad
		sim.SetCard(card)

		_, err := device.AntiCollision(context.Background())
		require.ErrorIs(t, err, mfrc522.ErrChecksum)
		assert.False(t, mfrc522.IsRetryable(err))
	})

	t.Run("truncated serial fails on length", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.ArmResponse([]byte{0x11, 0x22, 0x33}, 0)

		_, err := device.AntiCollision(context.Background())
		require.ErrorIs(t, err, mfrc522.ErrResponseLength)
	})
}

func TestSelectTag(t *testing.T) {
	t.Parallel()

	t.Run("returns SAK for matching UID", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		sak, err := device.SelectTag(context.Background(), []byte{0x11, 0x22, 0x33, 0x44})
		require.NoError(t, err)
		assert.Equal(t, byte(0x08), sak)
	})

	t.Run("card stays silent for foreign UID", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		_, err := device.SelectTag(context.Background(), []byte{0xDE, 0xAD, 0xBE, 0xEF})
		require.ErrorIs(t, err, mfrc522.ErrNoTag)
	})

	t.Run("rejects wrong UID size", func(t *testing.T) {
		t.Parallel()
		device, _ := newTestDevice(t)

		_, err := device.SelectTag(context.Background(), []byte{0x11, 0x22})
		require.ErrorIs(t, err, mfrc522.ErrInvalidParameter)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	uid := []byte{0x11, 0x22, 0x33, 0x44}

	t.Run("transport key accepted", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		err := device.Authenticate(context.Background(), mfrc522.AuthKeyA, 8, mfrc522.DefaultKey, uid)
		require.NoError(t, err)
		assert.True(t, sim.Authenticated())
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		wrongKey := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
		err := device.Authenticate(context.Background(), mfrc522.AuthKeyA, 8, wrongKey, uid)
		require.ErrorIs(t, err, mfrc522.ErrAuthFailed)
		assert.False(t, sim.Authenticated())
	})

	t.Run("exchange success without crypto flag still fails", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SuppressCryptoBit = true
		sim.SetCard(newTestCard())

		err := device.Authenticate(context.Background(), mfrc522.AuthKeyA, 8, mfrc522.DefaultKey, uid)
		require.ErrorIs(t, err, mfrc522.ErrAuthFailed)
	})

	t.Run("rejects wrong key size", func(t *testing.T) {
		t.Parallel()
		device, _ := newTestDevice(t)

		err := device.Authenticate(context.Background(), mfrc522.AuthKeyA, 8, []byte{0xFF}, uid)
		require.ErrorIs(t, err, mfrc522.ErrInvalidParameter)
	})

	t.Run("rejects wrong UID size", func(t *testing.T) {
		t.Parallel()
		device, _ := newTestDevice(t)

		err := device.Authenticate(context.Background(), mfrc522.AuthKeyA, 8, mfrc522.DefaultKey, uid[:2])
		require.ErrorIs(t, err, mfrc522.ErrInvalidParameter)
	})
}

func TestStopCrypto(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	sim.SetCard(newTestCard())

	err := device.Authenticate(context.Background(), mfrc522.AuthKeyA, 8,
		mfrc522.DefaultKey, []byte{0x11, 0x22, 0x33, 0x44})
	require.NoError(t, err)

	require.NoError(t, device.StopCrypto())

	// The crypto flag in the status register must be cleared
	status, err := device.Bus().ReadRegister(0x08)
	require.NoError(t, err)
	assert.Zero(t, status&0x08)
}

func TestReadBlock(t *testing.T) {
	t.Parallel()

	t.Run("returns block contents", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		card.Blocks[4] = [16]byte{0xDE, 0xAD, 0xBE, 0xEF, 4: 0x01, 15: 0xFF}
		sim.SetCard(card)

		data, err := device.ReadBlock(context.Background(), 4)
		require.NoError(t, err)
		expected := card.Blocks[4]
		assert.Equal(t, expected[:], data)
	})

	t.Run("unwritten block reads as zeroes", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		sim.SetCard(newTestCard())

		data, err := device.ReadBlock(context.Background(), 63)
		require.NoError(t, err)
		assert.Equal(t, make([]byte, 16), data)
	})

	t.Run("access-controlled card requires authentication", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		card.RequireAuth = true
		sim.SetCard(card)

		_, err := device.ReadBlock(context.Background(), 4)
		require.ErrorIs(t, err, mfrc522.ErrNoTag)

		err = device.Authenticate(context.Background(), mfrc522.AuthKeyA, 4,
			mfrc522.DefaultKey, []byte{0x11, 0x22, 0x33, 0x44})
		require.NoError(t, err)

		_, err = device.ReadBlock(context.Background(), 4)
		require.NoError(t, err)
	})
}

func TestWriteBlock(t *testing.T) {
	t.Parallel()

	payload := []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	}

	t.Run("two phase write stores the block", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		sim.SetCard(card)

		require.NoError(t, device.WriteBlock(context.Background(), 5, payload))
		stored := card.Blocks[5]
		assert.Equal(t, payload, stored[:])
	})

	t.Run("rejected command phase skips the payload", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		card.NackWrite1 = true
		sim.SetCard(card)

		err := device.WriteBlock(context.Background(), 5, payload)
		require.ErrorIs(t, err, mfrc522.ErrWriteRejected)
		assert.Empty(t, card.Blocks)
	})

	t.Run("rejected payload leaves the block unchanged", func(t *testing.T) {
		t.Parallel()
		device, sim := newTestDevice(t)
		card := newTestCard()
		card.NackWrite2 = true
		sim.SetCard(card)

		err := device.WriteBlock(context.Background(), 5, payload)
		require.ErrorIs(t, err, mfrc522.ErrWriteRejected)
		assert.Empty(t, card.Blocks)
	})

	t.Run("rejects wrong data size", func(t *testing.T) {
		t.Parallel()
		device, _ := newTestDevice(t)

		err := device.WriteBlock(context.Background(), 5, []byte{0x01, 0x02})
		require.ErrorIs(t, err, mfrc522.ErrInvalidParameter)
	})
}

func TestHalt(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	card := newTestCard()
	sim.SetCard(card)

	// The card never acknowledges a halt frame; that is not an error
	require.NoError(t, device.Halt(context.Background()))
	assert.True(t, card.Halted)

	_, err := device.Request(context.Background(), mfrc522.RequestIdle)
	require.ErrorIs(t, err, mfrc522.ErrNoTag)

	_, err = device.Request(context.Background(), mfrc522.RequestAll)
	require.NoError(t, err)
}

// TestFullCardSession walks the whole protocol sequence a reader
// performs against one card: probe, resolve, select, authenticate,
// write, read back, halt.
func TestFullCardSession(t *testing.T) {
	t.Parallel()
	device, sim := newTestDevice(t)
	card := newTestCard()
	card.RequireAuth = true
	sim.SetCard(card)
	ctx := context.Background()

	atqa, err := device.Request(ctx, mfrc522.RequestIdle)
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x04, 0x00}, atqa)

	uid, err := device.AntiCollision(ctx)
	require.NoError(t, err)

	sak, err := device.SelectTag(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, byte(0x08), sak)

	require.NoError(t, device.Authenticate(ctx, mfrc522.AuthKeyA, 8, mfrc522.DefaultKey, uid))

	payload := []byte("sixteen byte msg")
	require.Len(t, payload, 16)
	require.NoError(t, device.WriteBlock(ctx, 8, payload))

	data, err := device.ReadBlock(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	require.NoError(t, device.Halt(ctx))
	assert.True(t, card.Halted)
}
