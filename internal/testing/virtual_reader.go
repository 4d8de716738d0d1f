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

// Package testing provides test utilities including a register-level
// MFRC522 simulator.
//
// VirtualMFRC522 implements the driver's RegisterBus interface and
// models the reader at the register map level: the FIFO, the interrupt
// flag registers, the CRC coprocessor and the command register's
// side effects. A VirtualCard attached to the simulator answers the
// air-interface frames the reader transmits, so the full protocol
// stack can be exercised without hardware.
package testing

import (
	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/internal/frame"
	"github.com/ZaparooProject/go-mfrc522/internal/syncutil"
)

// Register addresses and command words, mirrored from the driver.
// The register map is fixed for the device family.
const (
	regCommand    = 0x01
	regComIEn     = 0x02
	regComIrq     = 0x04
	regDivIrq     = 0x05
	regError      = 0x06
	regStatus2    = 0x08
	regFIFOData   = 0x09
	regFIFOLevel  = 0x0A
	regControl    = 0x0C
	regBitFraming = 0x0D
	regCRCResultH = 0x21
	regCRCResultL = 0x22

	cmdIdle         = 0x00
	cmdCalcCRC      = 0x03
	cmdTransceive   = 0x0C
	cmdAuthenticate = 0x0E
	cmdSoftReset    = 0x0F

	irqTimer        = 0x01
	irqIdle         = 0x10
	irqRx           = 0x20
	irqSet1         = 0x80
	divIrqCRC       = 0x04
	fifoFlush       = 0x80
	startSend       = 0x80
	txLastBitsMask  = 0x07
	status2CryptoOn = 0x08
)

// RegisterWrite records one register write for test assertions
type RegisterWrite struct {
	Reg   byte
	Value byte
}

// VirtualMFRC522 simulates the MFRC522 at the register level and
// implements mfrc522.RegisterBus. All exported fault-injection fields
// must be set before the exchange under test runs.
type VirtualMFRC522 struct {
	card     *VirtualCard
	regs     map[byte]byte
	fifo     []byte
	WriteLog []RegisterWrite

	// Silent suppresses every interrupt flag, so a completion poll
	// exhausts its budget (NoResponse).
	Silent bool
	// ErrorBits is OR'd into the error register after each transceive,
	// simulating collision/CRC/protocol faults.
	ErrorBits byte
	// SuppressCryptoBit makes authentication complete without raising
	// the crypto-active status bit.
	SuppressCryptoBit bool

	forceResp     []byte
	forceLastBits byte
	forceArmed    bool

	lastCommand   byte
	authenticated bool
	closed        bool

	mu syncutil.Mutex
}

// NewVirtualMFRC522 creates a simulator with no card in the field
func NewVirtualMFRC522() *VirtualMFRC522 {
	return &VirtualMFRC522{
		regs: make(map[byte]byte),
	}
}

// SetCard places a card in (or removes it from, with nil) the simulated
// RF field.
func (v *VirtualMFRC522) SetCard(card *VirtualCard) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.card = card
}

// Card returns the card currently in the field
func (v *VirtualMFRC522) Card() *VirtualCard {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.card
}

// ArmResponse overrides the next transceive answer with an arbitrary
// byte sequence and last-byte bit count. One-shot; used to produce
// malformed bit lengths no well-behaved card would send.
func (v *VirtualMFRC522) ArmResponse(resp []byte, lastBits byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.forceResp = append([]byte{}, resp...)
	v.forceLastBits = lastBits
	v.forceArmed = true
}

// Authenticated reports whether the simulated Crypto1 unit is active
func (v *VirtualMFRC522) Authenticated() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.authenticated
}

// WriteRegister implements mfrc522.RegisterBus
func (v *VirtualMFRC522) WriteRegister(reg, value byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return mfrc522.NewBusClosedError("WriteRegister", "virtual")
	}
	v.WriteLog = append(v.WriteLog, RegisterWrite{Reg: reg, Value: value})

	switch reg {
	case regFIFOData:
		v.fifo = append(v.fifo, value)
	case regFIFOLevel:
		if value&fifoFlush != 0 {
			v.fifo = nil
		}
	case regComIrq, regDivIrq:
		// Hardware semantics: Set1=1 raises the written bits,
		// Set1=0 clears them.
		if value&irqSet1 != 0 {
			v.regs[reg] |= value &^ irqSet1
		} else {
			v.regs[reg] &^= value
		}
	case regBitFraming:
		v.regs[reg] = value
		if value&startSend != 0 && v.lastCommand == cmdTransceive {
			v.executeTransceive()
		}
	case regCommand:
		v.handleCommand(value)
	default:
		v.regs[reg] = value
	}
	return nil
}

// ReadRegister implements mfrc522.RegisterBus
func (v *VirtualMFRC522) ReadRegister(reg byte) (byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, mfrc522.NewBusClosedError("ReadRegister", "virtual")
	}

	switch reg {
	case regFIFOData:
		if len(v.fifo) == 0 {
			return 0, nil
		}
		b := v.fifo[0]
		v.fifo = v.fifo[1:]
		return b, nil
	case regFIFOLevel:
		return byte(len(v.fifo)), nil
	default:
		return v.regs[reg], nil
	}
}

// Close implements mfrc522.RegisterBus
func (v *VirtualMFRC522) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// IsConnected implements mfrc522.RegisterBus
func (v *VirtualMFRC522) IsConnected() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closed
}

// Type implements mfrc522.RegisterBus
func (*VirtualMFRC522) Type() mfrc522.BusType {
	return mfrc522.BusMock
}

// handleCommand applies the side effects of a command register write
func (v *VirtualMFRC522) handleCommand(command byte) {
	v.lastCommand = command
	switch command {
	case cmdIdle:
		// cancels any in-flight operation; nothing pending to cancel
		// in a synchronous simulation
	case cmdSoftReset:
		v.regs = make(map[byte]byte)
		v.fifo = nil
		v.authenticated = false
	case cmdCalcCRC:
		v.executeCalcCRC()
	case cmdAuthenticate:
		v.executeAuthenticate()
	case cmdTransceive:
		// transmission starts once StartSend is raised
	}
}

func (v *VirtualMFRC522) executeCalcCRC() {
	data := v.fifo
	v.fifo = nil
	crc := frame.CRCA(data)
	v.regs[regCRCResultL] = crc[0]
	v.regs[regCRCResultH] = crc[1]
	if !v.Silent {
		v.regs[regDivIrq] |= divIrqCRC
	}
}

func (v *VirtualMFRC522) executeAuthenticate() {
	req := v.fifo
	v.fifo = nil
	if v.Silent {
		return
	}
	if v.card == nil || !v.card.checkKey(req) {
		// Card stays silent on a bad key; the reader times out
		v.regs[regComIrq] |= irqTimer
		return
	}
	v.authenticated = true
	if !v.SuppressCryptoBit {
		v.regs[regStatus2] |= status2CryptoOn
	}
	v.regs[regComIrq] |= irqIdle
}

func (v *VirtualMFRC522) executeTransceive() {
	txLastBits := v.regs[regBitFraming] & txLastBitsMask
	req := v.fifo
	v.fifo = nil

	if v.Silent {
		return
	}
	defer func() {
		v.regs[regError] |= v.ErrorBits
	}()

	var resp []byte
	var lastBits byte
	switch {
	case v.forceArmed:
		resp, lastBits = v.forceResp, v.forceLastBits
		v.forceArmed = false
	case v.card == nil:
		v.regs[regComIrq] |= irqTimer
		return
	default:
		var ok bool
		resp, lastBits, ok = v.card.respond(req, txLastBits, v.authenticated)
		if !ok {
			v.regs[regComIrq] |= irqTimer
			return
		}
	}

	v.fifo = resp
	v.regs[regControl] = lastBits
	v.regs[regComIrq] |= irqRx | irqIdle
}
