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
	"fmt"
	"time"

	"github.com/ZaparooProject/go-mfrc522/internal/frame"
)

// Interrupt enable and completion masks per command kind. The reader
// signals completion through ComIrqReg rather than the IRQ line, so the
// engine polls for the command's wait mask or the timer flag.
const (
	authIRqEnable = 0x12 // idle and error interrupts
	authIRqWait   = irqIdle

	transceiveIRqEnable = 0x77 // tx, rx, idle, alert, error and timer interrupts
	transceiveIRqWait   = irqRx | irqIdle
)

// irqPollDelay is the pause between ComIrqReg polls. The wait is a
// busy-poll against the flag register, bounded by DeviceConfig.Timeout
// rather than an iteration count, so it behaves the same at any bus
// speed.
const irqPollDelay = 100 * time.Microsecond

// transceive runs one generic command/response exchange: arm interrupts,
// flush the FIFO, stage the outbound bytes, trigger the command and poll
// for completion, then classify the outcome and drain the response.
//
// The returned bit count is exact: whole FIFO bytes plus the valid bits
// of a partial last byte, as reported by ControlReg.
func (d *Device) transceive(ctx context.Context, command byte, send []byte) ([]byte, int, error) {
	if len(send) > frame.MaxTransceiveLen {
		return nil, 0, fmt.Errorf("%w: %d byte payload", ErrDataTooLarge, len(send))
	}

	var irqEn, waitIRq byte
	switch command {
	case cmdAuthenticate:
		irqEn, waitIRq = authIRqEnable, authIRqWait
	case cmdTransceive:
		irqEn, waitIRq = transceiveIRqEnable, transceiveIRqWait
	}

	if err := d.prepareExchange(irqEn, send); err != nil {
		return nil, 0, err
	}

	if err := d.bus.WriteRegister(regCommand, command); err != nil {
		return nil, 0, fmt.Errorf("failed to issue command %#02x: %w", command, err)
	}
	if command == cmdTransceive {
		// StartSend begins transmission over the air interface
		if err := d.setBits(regBitFraming, bitFramingStart); err != nil {
			return nil, 0, fmt.Errorf("failed to start transmission: %w", err)
		}
	}

	irq, completed, err := d.waitCompletion(ctx, waitIRq)

	// StartSend is cleared regardless of the poll outcome
	if clearErr := d.clearBits(regBitFraming, bitFramingStart); clearErr != nil && err == nil {
		err = fmt.Errorf("failed to stop transmission: %w", clearErr)
	}
	if err != nil {
		return nil, 0, err
	}
	if !completed {
		return nil, 0, ErrNoResponse
	}

	errBits, err := d.bus.ReadRegister(regError)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read error flags: %w", err)
	}
	if errBits&errorFatalMask != 0 {
		return nil, 0, fmt.Errorf("%w: error flags %#02x", ErrDevice, errBits&errorFatalMask)
	}

	// A timer interrupt under the enabled mask means the card never
	// answered: absence, not malfunction.
	if irq&irqEn&irqTimer != 0 {
		return nil, 0, ErrNoTag
	}

	if command != cmdTransceive {
		return nil, 0, nil
	}
	return d.drainFIFO()
}

// prepareExchange arms the interrupt sources, clears pending requests,
// flushes the FIFO, cancels any in-flight command and stages the
// outbound bytes.
func (d *Device) prepareExchange(irqEn byte, send []byte) error {
	if err := d.bus.WriteRegister(regComIEn, irqEn|irqSet1); err != nil {
		return fmt.Errorf("failed to arm interrupts: %w", err)
	}
	if err := d.clearBits(regComIrq, irqSet1); err != nil {
		return fmt.Errorf("failed to clear pending interrupts: %w", err)
	}
	if err := d.setBits(regFIFOLevel, fifoFlush); err != nil {
		return fmt.Errorf("failed to flush FIFO: %w", err)
	}
	if err := d.bus.WriteRegister(regCommand, cmdIdle); err != nil {
		return fmt.Errorf("failed to cancel current command: %w", err)
	}

	for i, b := range send {
		if err := d.bus.WriteRegister(regFIFOData, b); err != nil {
			return fmt.Errorf("failed to stage byte %d: %w", i, err)
		}
	}
	return nil
}

// waitCompletion polls ComIrqReg until the timer flag or the command's
// wait mask is set, the time budget is spent, or ctx is cancelled.
func (d *Device) waitCompletion(ctx context.Context, waitIRq byte) (irq byte, completed bool, err error) {
	deadline := time.Now().Add(d.config.Timeout)
	for {
		irq, err = d.bus.ReadRegister(regComIrq)
		if err != nil {
			return 0, false, fmt.Errorf("failed to poll interrupt flags: %w", err)
		}
		if irq&irqTimer != 0 || irq&waitIRq != 0 {
			return irq, true, nil
		}
		if time.Now().After(deadline) {
			return irq, false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, false, fmt.Errorf("exchange cancelled: %w", ctxErr)
		}
		time.Sleep(irqPollDelay)
	}
}

// drainFIFO reads the received byte count and the valid-bit count of the
// last byte, then empties the FIFO into a fresh buffer. The byte count
// is clamped to the frame bound before draining so an oversized response
// cannot run past the buffer.
func (d *Device) drainFIFO() ([]byte, int, error) {
	count, err := d.bus.ReadRegister(regFIFOLevel)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read FIFO level: %w", err)
	}
	control, err := d.bus.ReadRegister(regControl)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read control flags: %w", err)
	}

	lastBits := int(control & txLastBitsMask)
	bits := int(count) * 8
	if lastBits != 0 {
		bits = (int(count)-1)*8 + lastBits
	}

	// The FIFO always yields at least one byte; an empty response still
	// drains a single byte rather than none.
	if count == 0 {
		count = 1
	}
	if int(count) > frame.MaxTransceiveLen {
		count = frame.MaxTransceiveLen
	}

	data := make([]byte, count)
	for i := range data {
		data[i], err = d.bus.ReadRegister(regFIFOData)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to drain FIFO byte %d: %w", i, err)
		}
	}
	return data, bits, nil
}
