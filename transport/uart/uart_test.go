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

package uart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Serial address framing: the raw register address with bit 7 carrying
// the access direction.
func TestAddressFraming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		reg       byte
		wantWrite byte
		wantRead  byte
	}{
		{name: "command register", reg: 0x01, wantWrite: 0x01, wantRead: 0x81},
		{name: "FIFO data register", reg: 0x09, wantWrite: 0x09, wantRead: 0x89},
		{name: "highest register", reg: 0x3F, wantWrite: 0x3F, wantRead: 0xBF},
		{name: "direction bit stripped on write", reg: 0x81, wantWrite: 0x01, wantRead: 0x81},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantWrite, writeAddress(tt.reg))
			assert.Equal(t, tt.wantRead, readAddress(tt.reg))
		})
	}
}
