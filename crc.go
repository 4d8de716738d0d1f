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
)

// calculateCRC runs the reader's CRC coprocessor over data and returns
// the 2 byte check value, low byte first. Select, read and write frames
// carry this trailer; the card verifies it on receipt.
func (d *Device) calculateCRC(ctx context.Context, data []byte) ([2]byte, error) {
	var crc [2]byte

	if err := d.clearBits(regDivIrq, divIrqCRC); err != nil {
		return crc, fmt.Errorf("failed to clear CRC interrupt: %w", err)
	}
	if err := d.setBits(regFIFOLevel, fifoFlush); err != nil {
		return crc, fmt.Errorf("failed to flush FIFO: %w", err)
	}
	for i, b := range data {
		if err := d.bus.WriteRegister(regFIFOData, b); err != nil {
			return crc, fmt.Errorf("failed to stage CRC byte %d: %w", i, err)
		}
	}
	if err := d.bus.WriteRegister(regCommand, cmdCalcCRC); err != nil {
		return crc, fmt.Errorf("failed to start CRC calculation: %w", err)
	}

	deadline := time.Now().Add(d.config.CRCTimeout)
	for {
		irq, err := d.bus.ReadRegister(regDivIrq)
		if err != nil {
			return crc, fmt.Errorf("failed to poll CRC interrupt: %w", err)
		}
		if irq&divIrqCRC != 0 {
			break
		}
		if time.Now().After(deadline) {
			return crc, fmt.Errorf("CRC calculation: %w", ErrNoResponse)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return crc, fmt.Errorf("CRC calculation cancelled: %w", ctxErr)
		}
		time.Sleep(irqPollDelay)
	}

	low, err := d.bus.ReadRegister(regCRCResultL)
	if err != nil {
		return crc, fmt.Errorf("failed to read CRC result: %w", err)
	}
	high, err := d.bus.ReadRegister(regCRCResultH)
	if err != nil {
		return crc, fmt.Errorf("failed to read CRC result: %w", err)
	}

	crc[0], crc[1] = low, high
	return crc, nil
}
