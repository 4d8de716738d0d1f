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
	"context"
	"fmt"
	"sync/atomic"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/internal/syncutil"
)

// Monitor runs the acquisition side of the reader: a periodic producer
// that probes the field and publishes ScanResults into a bounded queue.
//
// The Monitor is the sole owner of the Device while running; consumers
// interact only through Results and the snapshot accessors.
type Monitor struct {
	device  *mfrc522.Device
	config  *Config
	results chan ScanResult
	last    ScanResult
	mu      syncutil.RWMutex
	dropped atomic.Uint64
}

// NewMonitor creates a monitor around an initialized device
func NewMonitor(device *mfrc522.Device, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	depth := config.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Monitor{
		device:  device,
		config:  config,
		results: make(chan ScanResult, depth),
	}
}

// Results returns the queue consumers receive from. Receives block
// until the next acquisition cycle publishes; the channel is never
// closed while the monitor runs.
func (m *Monitor) Results() <-chan ScanResult {
	return m.results
}

// LastResult returns a snapshot of the most recent cycle's outcome
func (m *Monitor) LastResult() ScanResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Dropped returns how many results were discarded against a full queue
func (m *Monitor) Dropped() uint64 {
	return m.dropped.Load()
}

// Device returns the underlying reader
func (m *Monitor) Device() *mfrc522.Device {
	return m.device
}

// Run executes the acquisition loop until ctx is cancelled: scan,
// publish, sleep. Every cycle publishes a result, successful or not,
// so the consumer always reflects the latest field state.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("acquisition stopped: %w", ctx.Err())
		default:
		}

		result := m.scanOnce(ctx)

		m.mu.Lock()
		m.last = result
		m.mu.Unlock()

		m.TryPublish(result)

		select {
		case <-ctx.Done():
			return fmt.Errorf("acquisition stopped: %w", ctx.Err())
		case <-time.After(m.config.PollInterval):
		}
	}
}

// scanOnce performs one acquisition cycle: probe the field, then
// resolve the UID. Anti-collision is attempted regardless of the
// probe's outcome; the cycle succeeds only when both operations do.
func (m *Monitor) scanOnce(ctx context.Context) ScanResult {
	var result ScanResult

	atqa, reqErr := m.device.Request(ctx, m.config.RequestMode)
	mfrc522.Debugf("request: err=%v tagType=%02X%02X", reqErr, atqa[0], atqa[1])

	uid, acErr := m.device.AntiCollision(ctx)
	mfrc522.Debugf("anticollision: err=%v uid=%X", acErr, uid)

	result.ATQA = atqa
	if reqErr == nil && acErr == nil {
		copy(result.UID[:], uid)
		result.UIDLength = len(uid)
		result.Status = StatusSuccess
	} else {
		result.UIDLength = 0
		result.Status = StatusUnsuccessful
	}
	return result
}

// TryPublish offers a result to the queue without blocking. When the
// queue is full the newest result is dropped and the queued entries
// are left untouched; acquisition never stalls on a slow consumer.
func (m *Monitor) TryPublish(result ScanResult) bool {
	select {
	case m.results <- result:
		return true
	default:
		m.dropped.Add(1)
		mfrc522.Debugln("result queue full, dropping newest scan")
		return false
	}
}

// Close releases the underlying device
func (m *Monitor) Close() error {
	if err := m.device.Close(); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}
