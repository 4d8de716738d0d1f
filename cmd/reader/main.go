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

// Command reader continuously scans for cards and displays the results.
//
// It runs two halves connected by the polling package's bounded queue:
// an acquisition goroutine that owns the MFRC522 and probes the field
// on an interval, and a display loop that consumes results, prints them
// and optionally drives an indicator LED.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
	"github.com/ZaparooProject/go-mfrc522/polling"
	"github.com/ZaparooProject/go-mfrc522/transport/i2c"
	"github.com/ZaparooProject/go-mfrc522/transport/spi"
	"github.com/ZaparooProject/go-mfrc522/transport/uart"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type config struct {
	devicePath string
	ledPin     string
	interval   time.Duration
	wakeAll    bool
	debug      bool
}

// Package-level flag variables
var (
	flagDevicePath string
	flagLEDPin     string
	flagInterval   time.Duration
	flagWakeAll    bool
	flagDebug      bool
)

func init() {
	flag.StringVar(&flagDevicePath, "device", "/dev/spidev0.0", "Register bus device path")
	flag.StringVar(&flagLEDPin, "led", "", "GPIO pin name for the scan indicator LED (disabled if empty)")
	flag.DurationVar(&flagInterval, "interval", 2*time.Second, "Pause between acquisition cycles")
	flag.BoolVar(&flagWakeAll, "all", false, "Probe halted cards too (wakeup instead of idle request)")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func parseConfig() *config {
	cfg := &config{
		devicePath: flagDevicePath,
		ledPin:     flagLEDPin,
		interval:   flagInterval,
		wakeAll:    flagWakeAll,
		debug:      flagDebug,
	}

	if cfg.debug {
		mfrc522.SetDebugEnabled(true)
	}

	return cfg
}

// newBus creates a register bus from a device path by pattern
func newBus(path string) (mfrc522.RegisterBus, error) {
	if path == "" {
		return nil, errors.New("empty device path")
	}

	pathLower := strings.ToLower(path)

	if strings.Contains(pathLower, "i2c") {
		bus, err := i2c.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C bus for %s: %w", path, err)
		}
		return bus, nil
	}

	if strings.Contains(pathLower, "spi") {
		bus, err := spi.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create SPI bus for %s: %w", path, err)
		}
		return bus, nil
	}

	// Default to UART for serial ports
	bus, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART bus for %s: %w", path, err)
	}
	return bus, nil
}

// indicator drives the scan LED, if one was configured
type indicator struct {
	pin gpio.PinIO
}

func newIndicator(name string) (*indicator, error) {
	if name == "" {
		return &indicator{}, nil
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no GPIO pin %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure LED pin: %w", err)
	}
	return &indicator{pin: pin}, nil
}

func (i *indicator) set(on bool) {
	if i.pin == nil {
		return
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := i.pin.Out(level); err != nil {
		mfrc522.Debugf("led: %v", err)
	}
}

// display consumes scan results until the queue closes or ctx ends
func display(ctx context.Context, results <-chan polling.ScanResult, led *indicator) {
	for {
		select {
		case <-ctx.Done():
			return
		case result := <-results:
			led.set(result.Status == polling.StatusSuccess)
			if result.Status == polling.StatusSuccess {
				fmt.Printf("%s  type=%s\n", result, mfrc522.TagTypeName(result.TagType()))
			} else {
				fmt.Println(result)
			}
		}
	}
}

func run(ctx context.Context, cfg *config) error {
	bus, err := newBus(cfg.devicePath)
	if err != nil {
		return err
	}

	device, err := mfrc522.New(bus)
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("failed to create device: %w", err)
	}
	if err := device.InitContext(ctx); err != nil {
		_ = bus.Close()
		return fmt.Errorf("failed to initialize reader: %w", err)
	}

	led, err := newIndicator(cfg.ledPin)
	if err != nil {
		_ = device.Close()
		return err
	}

	pollCfg := polling.DefaultConfig()
	pollCfg.PollInterval = cfg.interval
	if cfg.wakeAll {
		pollCfg.RequestMode = mfrc522.RequestAll
	}

	monitor := polling.NewMonitor(device, pollCfg)
	defer func() {
		if err := monitor.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}()

	fmt.Printf("Scanning on %s every %s (Ctrl+C to exit)\n", cfg.devicePath, cfg.interval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- monitor.Run(ctx)
	}()

	display(ctx, monitor.Results(), led)
	led.set(false)

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	flag.Parse()
	cfg := parseConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
