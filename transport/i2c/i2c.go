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

// Package i2c provides the I2C register bus implementation for the
// MFRC522.
//
// Unlike SPI, the I2C interface uses the raw register address with no
// shift or direction bit; direction comes from the bus transaction
// itself. A write is [addr, value], a read is a write of [addr]
// followed by a one byte read.
package i2c

import (
	"fmt"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultAddress is the device's I2C address with EA/AD pins grounded
const DefaultAddress = 0x28

// Bus implements the mfrc522.RegisterBus interface for I2C
type Bus struct {
	bus     i2c.BusCloser
	dev     *i2c.Dev
	busName string
}

// Option configures the I2C bus
type Option func(*Bus)

// WithAddress overrides the default device address, for boards that
// strap the address pins differently.
func WithAddress(addr uint16) Option {
	return func(b *Bus) {
		b.dev.Addr = addr
	}
}

// New creates a new I2C register bus
func New(busName string, opts ...Option) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	if err := bus.SetSpeed(400 * physic.KiloHertz); err != nil {
		mfrc522.Debugf("i2c: could not set bus speed: %v", err)
	}

	b := &Bus{
		bus:     bus,
		dev:     &i2c.Dev{Addr: DefaultAddress, Bus: bus},
		busName: busName,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// WriteRegister writes a single value to a device register
func (b *Bus) WriteRegister(reg, value byte) error {
	if b.bus == nil {
		return mfrc522.NewBusClosedError("WriteRegister", b.busName)
	}
	if err := b.dev.Tx([]byte{reg, value}, nil); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", b.busName)
	}
	return nil
}

// ReadRegister reads a single value from a device register
func (b *Bus) ReadRegister(reg byte) (byte, error) {
	if b.bus == nil {
		return 0, mfrc522.NewBusClosedError("ReadRegister", b.busName)
	}
	var rx [1]byte
	if err := b.dev.Tx([]byte{reg}, rx[:]); err != nil {
		return 0, mfrc522.NewBusReadError("ReadRegister", b.busName)
	}
	return rx[0], nil
}

// Close closes the bus connection
func (b *Bus) Close() error {
	if b.bus != nil {
		err := b.bus.Close()
		b.bus = nil
		if err != nil {
			return fmt.Errorf("I2C close failed: %w", err)
		}
	}
	return nil
}

// IsConnected returns true if the bus is connected
func (b *Bus) IsConnected() bool {
	return b.bus != nil
}

// Type returns the bus type
func (*Bus) Type() mfrc522.BusType {
	return mfrc522.BusI2C
}
