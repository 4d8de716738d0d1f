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

// Package polling provides continuous card acquisition decoupled from
// its consumer through a bounded result queue.
//
// A Monitor owns the reader and runs the acquisition loop: each cycle
// probes the field, resolves the UID and publishes a ScanResult. The
// queue is bounded and the publish is non-blocking; a saturated queue
// drops the newest result rather than stalling acquisition. Consumers
// block on Results.
package polling

import (
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// DefaultQueueDepth is the result queue capacity when none is configured
const DefaultQueueDepth = 3

// Config holds acquisition loop configuration options
type Config struct {
	// PollInterval is the pause between acquisition cycles
	PollInterval time.Duration
	// QueueDepth is the capacity of the result queue
	QueueDepth int
	// RequestMode selects which cards answer the per-cycle probe
	RequestMode mfrc522.RequestMode
}

// DefaultConfig returns the default acquisition configuration: a probe
// of idle cards every 2 seconds into a 3 slot queue.
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 2 * time.Second,
		QueueDepth:   DefaultQueueDepth,
		RequestMode:  mfrc522.RequestIdle,
	}
}
