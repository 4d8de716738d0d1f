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
	"context"
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-mfrc522/internal/frame"
)

// Expected response bit lengths for the fixed exchanges
const (
	atqaBits = 16  // Request: 2 byte ATQA
	sakBits  = 24  // SelectTag: SAK plus CRC
	readBits = 144 // ReadBlock: 16 data bytes plus CRC
	ackBits  = 4   // WriteBlock: acknowledge nibble
)

// Request probes the field for a card and returns its ATQA (tag type)
// bytes. With RequestIdle only cards not yet halted answer; RequestAll
// also wakes halted cards.
//
// The probe is a short 7-bit frame; a valid answer is exactly 16 bits.
func (d *Device) Request(ctx context.Context, mode RequestMode) ([2]byte, error) {
	var atqa [2]byte

	// TxLastBits=7: REQA/WUPA is a 7 bit frame
	if err := d.bus.WriteRegister(regBitFraming, 0x07); err != nil {
		return atqa, fmt.Errorf("failed to set short frame format: %w", err)
	}

	resp, bits, err := d.transceive(ctx, cmdTransceive, []byte{byte(mode)})
	if err != nil {
		return atqa, fmt.Errorf("request: %w", err)
	}
	if bits != atqaBits || len(resp) < 2 {
		return atqa, fmt.Errorf("request: %w: got %d bits", ErrResponseLength, bits)
	}

	atqa[0], atqa[1] = resp[0], resp[1]
	return atqa, nil
}

// AntiCollision resolves the UID of the card in the field (cascade
// level 1, 4 byte UIDs). The card answers with its UID followed by a
// check byte, the XOR of the UID bytes; a mismatch fails the operation.
func (d *Device) AntiCollision(ctx context.Context) ([]byte, error) {
	// Back to full byte framing after a Request probe
	if err := d.bus.WriteRegister(regBitFraming, 0x00); err != nil {
		return nil, fmt.Errorf("failed to set frame format: %w", err)
	}

	resp, _, err := d.transceive(ctx, cmdTransceive, []byte{piccAntiCollision, piccAnticollArg})
	if err != nil {
		return nil, fmt.Errorf("anticollision: %w", err)
	}
	if len(resp) != frame.SerialSize {
		return nil, fmt.Errorf("anticollision: %w: got %d bytes", ErrResponseLength, len(resp))
	}
	if frame.UIDChecksum(resp[:frame.UIDSize]) != resp[frame.UIDSize] {
		return nil, fmt.Errorf("anticollision: %w", ErrChecksum)
	}

	uid := make([]byte, frame.UIDSize)
	copy(uid, resp)
	return uid, nil
}

// SelectTag selects the card with the given 4 byte UID and returns its
// SAK byte, which encodes the card's capacity/family (0x08 for MIFARE
// Classic 1K, 0x18 for 4K).
func (d *Device) SelectTag(ctx context.Context, uid []byte) (byte, error) {
	if len(uid) != frame.UIDSize {
		return 0, fmt.Errorf("select: %w: UID must be %d bytes", ErrInvalidParameter, frame.UIDSize)
	}

	var buf frame.Buffer
	_ = buf.AppendBytes(piccAntiCollision, piccSelectArg)
	_ = buf.AppendBytes(uid...)
	_ = buf.AppendByte(frame.UIDChecksum(uid))

	crc, err := d.calculateCRC(ctx, buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("select: %w", err)
	}
	_ = buf.AppendBytes(crc[0], crc[1])

	resp, bits, err := d.transceive(ctx, cmdTransceive, buf.Bytes())
	if err != nil {
		return 0, fmt.Errorf("select: %w", err)
	}
	if bits != sakBits || len(resp) < 1 {
		return 0, fmt.Errorf("select: %w: got %d bits", ErrResponseLength, bits)
	}
	return resp[0], nil
}

// Authenticate performs the Crypto1 handshake for the sector containing
// block. The exchange succeeding is not enough: the reader only raises
// its crypto-active status bit when the card accepted the key, so that
// bit is required too.
func (d *Device) Authenticate(ctx context.Context, mode AuthMode, block byte, key, uid []byte) error {
	if len(key) != frame.KeySize {
		return fmt.Errorf("authenticate: %w: key must be %d bytes", ErrInvalidParameter, frame.KeySize)
	}
	if len(uid) != frame.UIDSize {
		return fmt.Errorf("authenticate: %w: UID must be %d bytes", ErrInvalidParameter, frame.UIDSize)
	}

	var buf frame.Buffer
	_ = buf.AppendBytes(byte(mode), block)
	_ = buf.AppendBytes(key...)
	_ = buf.AppendBytes(uid...)

	if _, _, err := d.transceive(ctx, cmdAuthenticate, buf.Bytes()); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	status, err := d.bus.ReadRegister(regStatus2)
	if err != nil {
		return fmt.Errorf("authenticate: failed to read crypto status: %w", err)
	}
	if status&status2CryptoOn == 0 {
		return fmt.Errorf("authenticate block %d: %w", block, ErrAuthFailed)
	}
	return nil
}

// StopCrypto switches the Crypto1 unit back off. Required before a
// different card can be addressed after an authenticated session.
func (d *Device) StopCrypto() error {
	if err := d.clearBits(regStatus2, status2CryptoOn); err != nil {
		return fmt.Errorf("failed to stop crypto unit: %w", err)
	}
	return nil
}

// ReadBlock reads one 16 byte block. The sector must have been
// authenticated first on cards that enforce access control.
func (d *Device) ReadBlock(ctx context.Context, block byte) ([]byte, error) {
	var buf frame.Buffer
	_ = buf.AppendBytes(piccRead, block)

	crc, err := d.calculateCRC(ctx, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}
	_ = buf.AppendBytes(crc[0], crc[1])

	resp, bits, err := d.transceive(ctx, cmdTransceive, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("read block %d: %w", block, err)
	}
	if bits != readBits || len(resp) < frame.BlockSize {
		return nil, fmt.Errorf("read block %d: %w: got %d bits", block, ErrResponseLength, bits)
	}
	return resp[:frame.BlockSize], nil
}

// WriteBlock writes one 16 byte block in two phases: the write command
// must be acknowledged before the payload is sent, and the payload must
// be acknowledged in turn. A rejected first phase skips the payload
// entirely.
func (d *Device) WriteBlock(ctx context.Context, block byte, data []byte) error {
	if len(data) != frame.BlockSize {
		return fmt.Errorf("write block %d: %w: data must be %d bytes", block, ErrInvalidParameter, frame.BlockSize)
	}

	var buf frame.Buffer
	_ = buf.AppendBytes(piccWrite, block)
	if err := d.writePhase(ctx, &buf); err != nil {
		return fmt.Errorf("write block %d: %w", block, err)
	}

	buf.Reset()
	_ = buf.AppendBytes(data...)
	if err := d.writePhase(ctx, &buf); err != nil {
		return fmt.Errorf("write block %d payload: %w", block, err)
	}
	return nil
}

// writePhase appends the CRC trailer to the staged frame, sends it and
// requires the 4 bit accept pattern in response.
func (d *Device) writePhase(ctx context.Context, buf *frame.Buffer) error {
	crc, err := d.calculateCRC(ctx, buf.Bytes())
	if err != nil {
		return err
	}
	if err := buf.AppendBytes(crc[0], crc[1]); err != nil {
		return err
	}

	resp, bits, err := d.transceive(ctx, cmdTransceive, buf.Bytes())
	if err != nil {
		return err
	}
	if bits != ackBits || len(resp) < 1 || resp[0]&0x0F != writeAck {
		return ErrWriteRejected
	}
	return nil
}

// Halt puts the card into its dormant state. The card does not
// acknowledge a halt frame, so protocol-level failures are ignored;
// only bus faults and cancellation surface.
func (d *Device) Halt(ctx context.Context) error {
	var buf frame.Buffer
	_ = buf.AppendBytes(piccHalt, 0x00)

	crc, err := d.calculateCRC(ctx, buf.Bytes())
	if err != nil {
		return fmt.Errorf("halt: %w", err)
	}
	_ = buf.AppendBytes(crc[0], crc[1])

	_, _, err = d.transceive(ctx, cmdTransceive, buf.Bytes())
	if err != nil && !errors.Is(err, ErrNoTag) && !errors.Is(err, ErrNoResponse) && !errors.Is(err, ErrDevice) {
		return fmt.Errorf("halt: %w", err)
	}
	return nil
}
