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

// Package spi provides the SPI register bus implementation for the
// MFRC522.
//
// The MFRC522's SPI interface frames each access as an address byte
// followed by a data byte inside one chip-select assertion: the
// register address is shifted left one bit, the MSB selects read (1)
// or write (0) and the LSB is always clear (datasheet 8.1.2). Both
// bytes go out in a single transaction so chip-select cannot glitch
// between them.
package spi

import (
	"fmt"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// readFlag marks the address byte of a register read
	readFlag = 0x80

	// Default SPI settings. The MFRC522 tolerates up to 10 MHz; a
	// conservative clock keeps long jumper wiring usable.
	defaultFreq = 1 * physic.MegaHertz
	mode        = spi.Mode0
)

// writeAddress frames a register address for a write access
func writeAddress(reg byte) byte {
	return (reg << 1) & 0x7E
}

// readAddress frames a register address for a read access
func readAddress(reg byte) byte {
	return ((reg << 1) & 0x7E) | readFlag
}

// Bus implements the mfrc522.RegisterBus interface for SPI
type Bus struct {
	port     spi.PortCloser
	conn     spi.Conn
	reset    gpio.PinIO
	portName string
}

// Option configures the SPI bus
type Option func(*Bus) error

// WithResetPin attaches the reader's hardware reset line. The pin is
// driven high (out of reset) when the bus opens; HardReset pulses it.
func WithResetPin(name string) Option {
	return func(b *Bus) error {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("%w: no GPIO pin %q", mfrc522.ErrInvalidParameter, name)
		}
		b.reset = pin
		return nil
	}
}

// New creates a new SPI register bus
func New(portName string, opts ...Option) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", portName, err)
	}

	conn, err := port.Connect(defaultFreq, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	bus := &Bus{
		port:     port,
		conn:     conn,
		portName: portName,
	}

	for _, opt := range opts {
		if err := opt(bus); err != nil {
			_ = port.Close()
			return nil, err
		}
	}

	if bus.reset != nil {
		if err := bus.reset.Out(gpio.High); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("failed to release reset line: %w", err)
		}
	}

	return bus, nil
}

// WriteRegister writes a single value to a device register
func (b *Bus) WriteRegister(reg, value byte) error {
	if b.port == nil {
		return mfrc522.NewBusClosedError("WriteRegister", b.portName)
	}
	if err := b.conn.Tx([]byte{writeAddress(reg), value}, nil); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", b.portName)
	}
	return nil
}

// ReadRegister reads a single value from a device register. The second
// clock-out byte is a dummy that pumps the register value back.
func (b *Bus) ReadRegister(reg byte) (byte, error) {
	if b.port == nil {
		return 0, mfrc522.NewBusClosedError("ReadRegister", b.portName)
	}
	var rx [2]byte
	if err := b.conn.Tx([]byte{readAddress(reg), 0x00}, rx[:]); err != nil {
		return 0, mfrc522.NewBusReadError("ReadRegister", b.portName)
	}
	return rx[1], nil
}

// HardReset pulses the reset line, if one was configured. The reader
// needs ~1ms after release before it accepts register access.
func (b *Bus) HardReset() error {
	if b.reset == nil {
		return fmt.Errorf("%w: no reset pin configured", mfrc522.ErrInvalidParameter)
	}
	if err := b.reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert reset: %w", err)
	}
	time.Sleep(100 * time.Microsecond)
	if err := b.reset.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to release reset: %w", err)
	}
	time.Sleep(1 * time.Millisecond)
	return nil
}

// Close closes the bus connection
func (b *Bus) Close() error {
	if b.port != nil {
		err := b.port.Close()
		b.port = nil
		if err != nil {
			return fmt.Errorf("SPI close failed: %w", err)
		}
	}
	return nil
}

// IsConnected returns true if the bus is connected
func (b *Bus) IsConnected() bool {
	return b.port != nil
}

// Type returns the bus type
func (*Bus) Type() mfrc522.BusType {
	return mfrc522.BusSPI
}
