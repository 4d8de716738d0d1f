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

// MFRC522 register addresses. Addresses are fixed for the device family;
// the transport layer applies the bus-specific address framing on top.
// Register map is from the MFRC522 datasheet section 9.2.
const (
	regCommand    = 0x01 // starts and stops command execution
	regComIEn     = 0x02 // interrupt request enable bits
	regComIrq     = 0x04 // interrupt request flags
	regDivIrq     = 0x05 // CRC and MFIN interrupt request flags
	regError      = 0x06 // error flags for the last executed command
	regStatus2    = 0x08 // receiver/transmitter status, crypto flag
	regFIFOData   = 0x09 // input and output of the 64 byte FIFO
	regFIFOLevel  = 0x0A // number of bytes stored in the FIFO
	regControl    = 0x0C // miscellaneous control, valid bits of last byte
	regBitFraming = 0x0D // adjustments for bit-oriented frames
	regMode       = 0x11 // general mode, CRC coprocessor preset
	regTxControl  = 0x14 // antenna driver control
	regTxASK      = 0x15 // transmit modulation setting
	regCRCResultH = 0x21 // CRC coprocessor result, high byte
	regCRCResultL = 0x22 // CRC coprocessor result, low byte
	regTMode      = 0x2A // timer mode and high prescaler bits
	regTPrescaler = 0x2B // timer prescaler, low bits
	regTReloadH   = 0x2C // timer reload value, high byte
	regTReloadL   = 0x2D // timer reload value, low byte
)

// ComIrqReg flag bits (datasheet 9.3.1.5). Each bit signals a pending
// interrupt request; the protocol engine polls these instead of wiring
// the IRQ line.
const (
	irqTimer = 0x01 // timer decremented to zero
	irqError = 0x02 // error bit set in regError
	irqIdle  = 0x10 // command terminated, reader idle
	irqRx    = 0x20 // receiver detected end of valid data stream
	irqTx    = 0x40 // last bit of transmitted data was sent
	irqSet1  = 0x80 // on write: set interrupt bits instead of clearing
)

// Other register bit masks used by the protocol engine.
const (
	divIrqCRC       = 0x04 // DivIrqReg: CRC coprocessor finished
	fifoFlush       = 0x80 // FIFOLevelReg: clear FIFO buffer and its pointer
	bitFramingStart = 0x80 // BitFramingReg: StartSend, begin transmission
	txLastBitsMask  = 0x07 // BitFramingReg/ControlReg: valid bits in last byte
	status2CryptoOn = 0x08 // Status2Reg: Crypto1 unit switched on
	antennaDrivers  = 0x03 // TxControlReg: Tx1/Tx2 output enable

	// ErrorReg bits that fail an exchange: BufferOvfl, CollErr,
	// ParityErr and ProtocolErr.
	errorFatalMask = 0x1B
)

// Init register values written at power-up: a ~24ms timeout timer,
// forced 100% ASK modulation and the 0x6363 CRC preset used by
// ISO14443A.
const (
	initTMode      = 0x8D // TAuto=1, timer starts at end of transmission
	initTPrescaler = 0x3E
	initTReloadL   = 30
	initTReloadH   = 0
	initTxASK      = 0x40 // Force100ASK
	initMode       = 0x3D // CRC preset 0x6363
)
