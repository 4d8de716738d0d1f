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

// MFRC522 command words, written to regCommand (datasheet 10.3)
const (
	cmdIdle         = 0x00 // cancel the current command
	cmdCalcCRC      = 0x03 // activate the CRC coprocessor
	cmdTransceive   = 0x0C // transmit FIFO data and activate receiver
	cmdAuthenticate = 0x0E // perform the MIFARE Crypto1 authentication
	cmdSoftReset    = 0x0F // reset the reader
)

// ISO14443A / MIFARE commands sent over the air interface
const (
	piccAntiCollision = 0x93 // anti-collision, cascade level 1
	piccSelectArg     = 0x70 // NVB for a full select frame
	piccAnticollArg   = 0x20 // NVB for an anti-collision frame
	piccRead          = 0x30 // read one 16 byte block
	piccWrite         = 0xA0 // write one 16 byte block
	piccHalt          = 0x50 // put the card into halt state
)

// writeAck is the 4-bit acknowledge pattern a MIFARE card returns after
// each phase of a block write.
const writeAck = 0x0A

// RequestMode selects which cards answer a Request operation.
type RequestMode byte

const (
	// RequestIdle addresses cards in idle state only (REQA).
	RequestIdle RequestMode = 0x26
	// RequestAll additionally wakes halted cards (WUPA).
	RequestAll RequestMode = 0x52
)

// AuthMode selects which sector key is used for authentication.
type AuthMode byte

const (
	// AuthKeyA authenticates with key A of the block's sector.
	AuthKeyA AuthMode = 0x60
	// AuthKeyB authenticates with key B of the block's sector.
	AuthKeyB AuthMode = 0x61
)

// DefaultKey is the factory transport key present on blank MIFARE
// Classic cards.
var DefaultKey = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// TagTypeName maps an ATQA value to the MIFARE family name it
// identifies. Unknown values return "Unknown".
func TagTypeName(atqa [2]byte) string {
	switch atqa {
	case [2]byte{0x44, 0x00}:
		return "MIFARE Ultralight"
	case [2]byte{0x04, 0x00}:
		return "MIFARE Classic 1K"
	case [2]byte{0x02, 0x00}:
		return "MIFARE Classic 4K"
	case [2]byte{0x08, 0x00}:
		return "MIFARE Pro"
	case [2]byte{0x44, 0x03}:
		return "MIFARE DESFire"
	default:
		return "Unknown"
	}
}
