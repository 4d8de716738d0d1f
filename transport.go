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

// RegisterBus defines the interface for register access to an MFRC522.
// This can be implemented by SPI, UART or I2C backends.
//
// Implementations own chip-select and the bus-specific address framing.
// The bus is not required to be safe for concurrent use: the Device is
// the sole owner of the reader's register state and callers must not
// issue register operations from more than one goroutine.
type RegisterBus interface {
	// WriteRegister writes a single value to a device register
	WriteRegister(reg, value byte) error

	// ReadRegister reads a single value from a device register
	ReadRegister(reg byte) (byte, error)

	// Close closes the bus connection
	Close() error

	// IsConnected returns true if the bus is connected
	IsConnected() bool

	// Type returns the bus type
	Type() BusType
}

// BusType represents the type of register bus
type BusType string

const (
	// BusSPI represents an SPI register bus.
	BusSPI BusType = "spi"
	// BusUART represents a UART/serial register bus.
	BusUART BusType = "uart"
	// BusI2C represents an I2C register bus.
	BusI2C BusType = "i2c"
	// BusMock represents a mock bus for testing
	BusMock BusType = "mock"
)

// setBits sets the masked bits in a register using read-modify-write.
// Not atomic with respect to other register operations; see RegisterBus
// for the single-owner requirement.
func (d *Device) setBits(reg, mask byte) error {
	value, err := d.bus.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.bus.WriteRegister(reg, value|mask)
}

// clearBits clears the masked bits in a register using read-modify-write.
func (d *Device) clearBits(reg, mask byte) error {
	value, err := d.bus.ReadRegister(reg)
	if err != nil {
		return err
	}
	return d.bus.WriteRegister(reg, value&^mask)
}
