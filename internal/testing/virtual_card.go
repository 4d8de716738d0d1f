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

package testing

import (
	"bytes"

	"github.com/ZaparooProject/go-mfrc522/internal/frame"
)

// ISO14443A / MIFARE air-interface commands, mirrored from the driver.
// These values are fixed by the card protocol.
const (
	piccRequestIdle   = 0x26
	piccRequestAll    = 0x52
	piccAntiCollision = 0x93
	piccAnticollArg   = 0x20
	piccSelectArg     = 0x70
	piccRead          = 0x30
	piccWrite         = 0xA0
	piccHalt          = 0x50

	// 4 bit answers a MIFARE card gives to a write phase
	cardAck = 0x0A
	cardNak = 0x04
)

// VirtualCard models one ISO14443A card in the simulated field. It
// answers air-interface frames the way a MIFARE Classic card does:
// ATQA to a 7 bit request, UID plus check byte to anti-collision, SAK
// to select, block data or write acknowledges to authenticated memory
// access, and silence to everything else.
type VirtualCard struct {
	Blocks      map[byte][16]byte
	BCCOverride *byte // substitute UID check byte, for corruption tests
	UID         [4]byte
	ATQA        [2]byte
	Key         [6]byte
	SAK         byte
	Halted      bool
	RequireAuth bool // answer memory access only after authentication
	NackWrite1  bool // reject the write command phase
	NackWrite2  bool // accept the command, reject the payload

	pendingWriteBlock *byte
}

// NewMIFARE1K creates a card with MIFARE Classic 1K identity values and
// the factory transport key.
func NewMIFARE1K(uid [4]byte) *VirtualCard {
	return &VirtualCard{
		UID:    uid,
		ATQA:   [2]byte{0x04, 0x00},
		SAK:    0x08,
		Key:    [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		Blocks: make(map[byte][16]byte),
	}
}

// bcc returns the UID check byte the card reports during anti-collision
func (c *VirtualCard) bcc() byte {
	if c.BCCOverride != nil {
		return *c.BCCOverride
	}
	return frame.UIDChecksum(c.UID[:])
}

// checkKey reports whether an authenticate frame carries this card's
// key and UID. The frame layout is mode, block, 6 key bytes, 4 UID
// bytes.
func (c *VirtualCard) checkKey(req []byte) bool {
	if len(req) != 12 {
		return false
	}
	if req[0] != 0x60 && req[0] != 0x61 {
		return false
	}
	return bytes.Equal(req[2:8], c.Key[:]) && bytes.Equal(req[8:12], c.UID[:])
}

// respond produces the card's answer to one transceived frame.
// lastBits is the valid-bit count of the response's final byte (0 means
// all 8 bits). ok is false when the card stays silent, which the reader
// reports as a timer expiry.
func (c *VirtualCard) respond(req []byte, txLastBits byte, authenticated bool) (resp []byte, lastBits byte, ok bool) {
	// A pending write payload is only valid as the immediate next frame
	pending := c.pendingWriteBlock
	c.pendingWriteBlock = nil

	if txLastBits == 7 {
		return c.respondRequest(req)
	}

	switch {
	case len(req) == 2 && req[0] == piccAntiCollision && req[1] == piccAnticollArg:
		serial := append([]byte{}, c.UID[:]...)
		return append(serial, c.bcc()), 0, true

	case len(req) == 9 && req[0] == piccAntiCollision && req[1] == piccSelectArg:
		return c.respondSelect(req)

	case len(req) == 4 && req[0] == piccRead:
		return c.respondRead(req, authenticated)

	case len(req) == 4 && req[0] == piccWrite:
		return c.respondWriteCommand(req, authenticated)

	case pending != nil && len(req) == frame.BlockSize+2:
		return c.respondWritePayload(*pending, req)

	case len(req) == 4 && req[0] == piccHalt && req[1] == 0x00:
		c.Halted = true
		return nil, 0, false

	default:
		return nil, 0, false
	}
}

// respondRequest answers the short-frame REQA/WUPA probe with ATQA
func (c *VirtualCard) respondRequest(req []byte) ([]byte, byte, bool) {
	if len(req) != 1 {
		return nil, 0, false
	}
	switch req[0] {
	case piccRequestIdle:
		if c.Halted {
			return nil, 0, false
		}
	case piccRequestAll:
		c.Halted = false
	default:
		return nil, 0, false
	}
	return append([]byte{}, c.ATQA[:]...), 0, true
}

func (c *VirtualCard) respondSelect(req []byte) ([]byte, byte, bool) {
	if !verifyCRC(req) {
		return nil, 0, false
	}
	if !bytes.Equal(req[2:6], c.UID[:]) || req[6] != c.bcc() {
		return nil, 0, false
	}
	crc := frame.CRCA([]byte{c.SAK})
	return []byte{c.SAK, crc[0], crc[1]}, 0, true
}

func (c *VirtualCard) respondRead(req []byte, authenticated bool) ([]byte, byte, bool) {
	if !verifyCRC(req) {
		return nil, 0, false
	}
	if c.RequireAuth && !authenticated {
		return nil, 0, false
	}
	data := c.Blocks[req[1]]
	crc := frame.CRCA(data[:])
	return append(data[:], crc[0], crc[1]), 0, true
}

func (c *VirtualCard) respondWriteCommand(req []byte, authenticated bool) ([]byte, byte, bool) {
	if !verifyCRC(req) {
		return nil, 0, false
	}
	if c.RequireAuth && !authenticated {
		return nil, 0, false
	}
	if c.NackWrite1 {
		return []byte{cardNak}, 4, true
	}
	block := req[1]
	c.pendingWriteBlock = &block
	return []byte{cardAck}, 4, true
}

func (c *VirtualCard) respondWritePayload(block byte, req []byte) ([]byte, byte, bool) {
	if !verifyCRC(req) {
		return nil, 0, false
	}
	if c.NackWrite2 {
		return []byte{cardNak}, 4, true
	}
	var data [16]byte
	copy(data[:], req[:frame.BlockSize])
	c.Blocks[block] = data
	return []byte{cardAck}, 4, true
}

// verifyCRC checks the 2 byte CRC_A trailer of a received frame
func verifyCRC(req []byte) bool {
	if len(req) < 3 {
		return false
	}
	crc := frame.CRCA(req[:len(req)-2])
	return crc[0] == req[len(req)-2] && crc[1] == req[len(req)-1]
}
