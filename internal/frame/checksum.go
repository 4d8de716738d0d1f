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

package frame

// UIDChecksum computes the BCC check byte for an anti-collision
// response: the XOR of the UID bytes.
func UIDChecksum(uid []byte) byte {
	chk := byte(0)
	for _, b := range uid {
		chk ^= b
	}
	return chk
}

// CRCA computes the ISO14443A CRC_A of data, low byte first. This is
// the same checksum the reader's CRC coprocessor produces with the
// 0x6363 preset; the simulator uses it to stand in for the hardware.
func CRCA(data []byte) [2]byte {
	crc := uint16(0x6363)
	for _, b := range data {
		ch := b ^ byte(crc)
		ch = ch ^ (ch << 4)
		crc = (crc >> 8) ^ (uint16(ch) << 8) ^ (uint16(ch) << 3) ^ (uint16(ch) >> 4)
	}
	return [2]byte{byte(crc), byte(crc >> 8)}
}
