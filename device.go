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

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Timeout is the budget for a single command/response exchange.
	// The interrupt-flag poll loop gives up once it is spent, so it
	// must cover the card's worst-case answer time (~25ms for MIFARE
	// Classic) with margin for bus latency.
	Timeout time.Duration
	// CRCTimeout is the budget for a hardware CRC calculation
	CRCTimeout time.Duration
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Timeout:    50 * time.Millisecond,
		CRCTimeout: 10 * time.Millisecond,
	}
}

// Device represents an MFRC522 contactless reader
//
// Thread Safety: Device is NOT thread-safe. The device is the sole owner
// of the reader's register state; all methods must be called from a single
// goroutine or protected with external synchronization. Cross-goroutine
// consumers should receive scan results through the polling package
// instead of sharing the Device.
type Device struct {
	bus    RegisterBus
	config *DeviceConfig
}

// Option configures a Device
type Option func(*Device) error

// WithTimeout sets the exchange timeout budget
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.Timeout = timeout
		return nil
	}
}

// WithCRCTimeout sets the CRC calculation timeout budget
func WithCRCTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return ErrInvalidParameter
		}
		d.config.CRCTimeout = timeout
		return nil
	}
}

// New creates a new MFRC522 device on the given register bus
func New(bus RegisterBus, opts ...Option) (*Device, error) {
	if bus == nil {
		return nil, fmt.Errorf("%w: nil register bus", ErrInvalidParameter)
	}

	device := &Device{
		bus:    bus,
		config: DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Bus returns the underlying register bus
func (d *Device) Bus() RegisterBus {
	return d.bus
}

// SetTimeout sets the exchange timeout budget
func (d *Device) SetTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return ErrInvalidParameter
	}
	d.config.Timeout = timeout
	return nil
}

// Init initializes the MFRC522 for ISO14443A operation
func (d *Device) Init() error {
	return d.InitContext(context.Background())
}

// InitContext initializes the MFRC522 for ISO14443A operation.
//
// The sequence is a soft reset followed by the timer, modulation and CRC
// preset setup the card protocol depends on, then antenna enable. The
// timer values give roughly a 24ms timeout before the reader raises the
// timer interrupt on a silent card.
func (d *Device) InitContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("init cancelled: %w", err)
	}

	if err := d.Reset(); err != nil {
		return fmt.Errorf("failed to reset reader: %w", err)
	}

	setup := []struct {
		reg   byte
		value byte
	}{
		{regTMode, initTMode},
		{regTPrescaler, initTPrescaler},
		{regTReloadL, initTReloadL},
		{regTReloadH, initTReloadH},
		{regTxASK, initTxASK},
		{regMode, initMode},
	}
	for _, s := range setup {
		if err := d.bus.WriteRegister(s.reg, s.value); err != nil {
			return fmt.Errorf("failed to write init register %#02x: %w", s.reg, err)
		}
	}

	if err := d.AntennaOn(); err != nil {
		return fmt.Errorf("failed to enable antenna: %w", err)
	}

	Debugf("reader initialized on %s bus", d.bus.Type())
	return nil
}

// Reset issues a soft reset command to the reader
func (d *Device) Reset() error {
	if err := d.bus.WriteRegister(regCommand, cmdSoftReset); err != nil {
		return fmt.Errorf("soft reset failed: %w", err)
	}
	return nil
}

// AntennaOn enables the antenna drivers. The drivers hold their state
// across commands, so this is only needed after init or AntennaOff.
func (d *Device) AntennaOn() error {
	value, err := d.bus.ReadRegister(regTxControl)
	if err != nil {
		return fmt.Errorf("failed to read antenna state: %w", err)
	}
	if value&antennaDrivers == antennaDrivers {
		return nil
	}
	if err := d.setBits(regTxControl, antennaDrivers); err != nil {
		return fmt.Errorf("failed to enable antenna drivers: %w", err)
	}
	return nil
}

// AntennaOff disables the antenna drivers
func (d *Device) AntennaOff() error {
	if err := d.clearBits(regTxControl, antennaDrivers); err != nil {
		return fmt.Errorf("failed to disable antenna drivers: %w", err)
	}
	return nil
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.bus != nil {
		if err := d.bus.Close(); err != nil {
			return fmt.Errorf("failed to close bus: %w", err)
		}
	}
	return nil
}
