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

package polling

import (
	"encoding/hex"
	"fmt"
)

// ScanStatus is the outcome of one acquisition cycle
type ScanStatus uint8

const (
	// StatusUnsuccessful means no card was detected this cycle
	StatusUnsuccessful ScanStatus = iota
	// StatusSuccess means a card answered both the probe and
	// anti-collision
	StatusSuccess
)

// String returns the display form of the status
func (s ScanStatus) String() string {
	if s == StatusSuccess {
		return "Success"
	}
	return "Unsuccessful"
}

// ScanResult is one acquisition cycle's outcome. Results are plain
// values: each is built fresh per cycle, handed to the queue by value
// and never referenced by the producer afterwards.
//
// UID holds up to 10 bytes to leave room for cascade level 2/3 cards;
// with the 4 byte family currently supported, UIDLength is 4 on
// success and 0 otherwise.
type ScanResult struct {
	UID       [10]byte
	UIDLength int
	ATQA      [2]byte
	Status    ScanStatus
}

// UIDString returns the detected UID as a hex string, or "" when no
// card was detected.
func (r ScanResult) UIDString() string {
	return hex.EncodeToString(r.UID[:r.UIDLength])
}

// TagType returns the raw ATQA bytes reported by the probe
func (r ScanResult) TagType() [2]byte {
	return r.ATQA
}

// String returns a one line summary of the result
func (r ScanResult) String() string {
	if r.Status == StatusSuccess {
		return fmt.Sprintf("Tag/Card: %s (ATQA %02X%02X)", r.UIDString(), r.ATQA[0], r.ATQA[1])
	}
	return "Tag/Card: Not Detected"
}
