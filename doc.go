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

/*
Package mfrc522 provides a pure Go driver for the MFRC522 contactless
reader IC, speaking ISO14443A to MIFARE Classic family cards over a
register-oriented SPI or UART bus.

The driver covers the full card protocol: request/wake, anti-collision
with UID checksum verification, select, Crypto1 authentication, block
read and write, and halt. Exchanges run through the reader's FIFO with
hardware CRC_A trailers where the protocol requires them, and the
completion wait is a time-budgeted poll of the interrupt flag register.

Basic usage:

	import (
	    mfrc522 "github.com/ZaparooProject/go-mfrc522"
	    "github.com/ZaparooProject/go-mfrc522/transport/spi"
	)

	bus, err := spi.New("/dev/spidev0.0")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := mfrc522.New(bus)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}

	ctx := context.Background()
	atqa, err := device.Request(ctx, mfrc522.RequestIdle)
	if err != nil {
	    log.Fatal(err)
	}
	uid, err := device.AntiCollision(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("%s card, UID %X\n", mfrc522.TagTypeName(atqa), uid)

For continuous scanning with a decoupled consumer, see the polling
package; cmd/reader is a complete acquisition/display example.

The Device is not safe for concurrent use: it is the sole owner of the
reader's register state. Errors follow the errors.Is/As conventions with
sentinel values (ErrNoTag, ErrNoResponse, ErrDevice, ...) so callers can
tell an absent card from a faulted exchange.
*/
package mfrc522
