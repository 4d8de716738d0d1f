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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanStatusString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Success", StatusSuccess.String())
	assert.Equal(t, "Unsuccessful", StatusUnsuccessful.String())
}

func TestScanResultString(t *testing.T) {
	t.Parallel()

	t.Run("detected", func(t *testing.T) {
		t.Parallel()
		result := ScanResult{
			UID:       [10]byte{0xDE, 0xAD, 0xBE, 0xEF},
			UIDLength: 4,
			ATQA:      [2]byte{0x04, 0x00},
			Status:    StatusSuccess,
		}
		assert.Equal(t, "deadbeef", result.UIDString())
		assert.Equal(t, "Tag/Card: deadbeef (ATQA 0400)", result.String())
	})

	t.Run("not detected", func(t *testing.T) {
		t.Parallel()
		var result ScanResult
		assert.Empty(t, result.UIDString())
		assert.Equal(t, "Tag/Card: Not Detected", result.String())
	})
}
