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

// Package frame provides the bounded frame buffer and checksum helpers
// shared by the driver and its bus simulators.
package frame

// Sizes fixed by the ISO14443A / MIFARE Classic protocol
const (
	// MaxTransceiveLen is the largest single-command payload: a block
	// write of 16 data bytes plus the 2 byte CRC. Every FIFO drain is
	// clamped to this bound.
	MaxTransceiveLen = 18

	// BlockSize is the MIFARE Classic block size in bytes
	BlockSize = 16

	// KeySize is the MIFARE Classic sector key size in bytes
	KeySize = 6

	// UIDSize is the cascade level 1 UID size in bytes
	UIDSize = 4

	// SerialSize is the anti-collision response size: the UID plus its
	// XOR check byte
	SerialSize = 5
)
