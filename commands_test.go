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

package mfrc522_test

import (
	"testing"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/stretchr/testify/assert"
)

func TestTagTypeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
		atqa [2]byte
	}{
		{name: "ultralight", atqa: [2]byte{0x44, 0x00}, want: "MIFARE Ultralight"},
		{name: "classic 1k", atqa: [2]byte{0x04, 0x00}, want: "MIFARE Classic 1K"},
		{name: "classic 4k", atqa: [2]byte{0x02, 0x00}, want: "MIFARE Classic 4K"},
		{name: "pro", atqa: [2]byte{0x08, 0x00}, want: "MIFARE Pro"},
		{name: "desfire", atqa: [2]byte{0x44, 0x03}, want: "MIFARE DESFire"},
		{name: "unknown", atqa: [2]byte{0xFF, 0xFF}, want: "Unknown"},
		{name: "zero", atqa: [2]byte{0x00, 0x00}, want: "Unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mfrc522.TagTypeName(tt.atqa))
		})
	}
}

func TestDefaultKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, mfrc522.DefaultKey)
}
