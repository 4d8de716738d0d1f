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

import "errors"

// ErrBufferFull is returned when an append would exceed the frame bound
var ErrBufferFull = errors.New("frame buffer full")

// Buffer is a bounded staging area for one command/response exchange.
// Its capacity always covers the largest single-command payload, so a
// well-formed exchange can never overflow it; oversized appends fail
// instead of truncating silently.
type Buffer struct {
	data [MaxTransceiveLen]byte
	len  int
}

// AppendByte adds a single byte to the buffer
func (b *Buffer) AppendByte(v byte) error {
	if b.len >= MaxTransceiveLen {
		return ErrBufferFull
	}
	b.data[b.len] = v
	b.len++
	return nil
}

// AppendBytes adds a byte sequence to the buffer
func (b *Buffer) AppendBytes(v ...byte) error {
	if b.len+len(v) > MaxTransceiveLen {
		return ErrBufferFull
	}
	copy(b.data[b.len:], v)
	b.len += len(v)
	return nil
}

// Bytes returns the staged bytes. The slice aliases the buffer and is
// only valid until the next Append or Reset.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.len]
}

// Len returns the number of staged bytes
func (b *Buffer) Len() int {
	return b.len
}

// Reset empties the buffer
func (b *Buffer) Reset() {
	b.len = 0
}
