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

// Package uart provides the UART register bus implementation for the
// MFRC522.
//
// The device's serial interface carries one register access per
// half-duplex exchange: the host sends the address byte (bit 7 set for
// a read, clear for a write), then either reads the register value back
// or, for a write, waits for the device to echo the address before
// sending the data byte. The echo is the only delivery confirmation the
// protocol offers, so a mismatch is surfaced as a distinct error.
package uart

import (
	"fmt"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"go.bug.st/serial"
)

const (
	// readFlag marks the address byte of a register read
	readFlag = 0x80

	// defaultBaudRate is the device's power-on serial speed
	defaultBaudRate = 9600

	// defaultReadTimeout bounds each single-byte read
	defaultReadTimeout = 100 * time.Millisecond
)

// readAddress frames a register address for a read access
func readAddress(reg byte) byte {
	return reg | readFlag
}

// writeAddress frames a register address for a write access
func writeAddress(reg byte) byte {
	return reg &^ readFlag
}

// Bus implements the mfrc522.RegisterBus interface for UART
type Bus struct {
	port     serial.Port
	portName string
}

// Option configures the UART bus
type Option func(*serial.Mode)

// WithBaudRate overrides the default 9600 baud. The device only runs
// faster after its serial speed register is reprogrammed, so this is
// for buses that were already switched.
func WithBaudRate(baud int) Option {
	return func(m *serial.Mode) {
		m.BaudRate = baud
	}
}

// New creates a new UART register bus
func New(portName string, opts ...Option) (*Bus, error) {
	mode := &serial.Mode{
		BaudRate: defaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	for _, opt := range opts {
		opt(mode)
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(defaultReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &Bus{
		port:     port,
		portName: portName,
	}, nil
}

// WriteRegister writes a single value to a device register. The device
// echoes the address byte before it will accept the data byte.
func (b *Bus) WriteRegister(reg, value byte) error {
	if b.port == nil {
		return mfrc522.NewBusClosedError("WriteRegister", b.portName)
	}

	if _, err := b.port.Write([]byte{writeAddress(reg)}); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", b.portName)
	}

	echo, err := b.readByte()
	if err != nil {
		return mfrc522.NewBusReadError("WriteRegister", b.portName)
	}
	if echo != writeAddress(reg) {
		mfrc522.Debugf("uart: address echo mismatch: sent %02X got %02X", writeAddress(reg), echo)
		return mfrc522.NewBusEchoError("WriteRegister", b.portName)
	}

	if _, err := b.port.Write([]byte{value}); err != nil {
		return mfrc522.NewBusWriteError("WriteRegister", b.portName)
	}
	return nil
}

// ReadRegister reads a single value from a device register
func (b *Bus) ReadRegister(reg byte) (byte, error) {
	if b.port == nil {
		return 0, mfrc522.NewBusClosedError("ReadRegister", b.portName)
	}

	if _, err := b.port.Write([]byte{readAddress(reg)}); err != nil {
		return 0, mfrc522.NewBusWriteError("ReadRegister", b.portName)
	}

	value, err := b.readByte()
	if err != nil {
		return 0, mfrc522.NewBusReadError("ReadRegister", b.portName)
	}
	return value, nil
}

// readByte reads exactly one byte, treating a timeout (zero-length
// read) as a failure.
func (b *Bus) readByte() (byte, error) {
	var buf [1]byte
	n, err := b.port.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("serial read failed: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("serial read timed out: %w", mfrc522.ErrNoResponse)
	}
	return buf[0], nil
}

// Close closes the bus connection
func (b *Bus) Close() error {
	if b.port != nil {
		err := b.port.Close()
		b.port = nil
		if err != nil {
			return fmt.Errorf("serial close failed: %w", err)
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
	return mfrc522.BusUART
}
