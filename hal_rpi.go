//go:build linux && arm && !disablegpio
// +build linux,arm,!disablegpio

// Raspberry Pi drivers built on the periph.io stack.  The indicator and
// button lines are plain GPIOs addressed by BCM number; the display is
// an HD44780 16x2 module wired in 4-bit mode.  Cross-compiling for
// other platforms, or building with the "disablegpio" tag, selects the
// stub drivers instead.

package main

import (
	"fmt"
	"log"

	// Use the new periph module layout.  See https://periph.io/news/2020/a_new_start/
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/hd44780"
	"periph.io/x/host/v3"
)

// Display wiring (BCM numbering), matching the deployed unit:
// rs 7, enable 8, d4 9, d5 10, d6 11, d7 12.
var lcdPins = struct {
	rs, e          int
	d4, d5, d6, d7 int
}{rs: 7, e: 8, d4: 9, d5: 10, d6: 11, d7: 12}

// gpioSignal drives digital lines through gpioreg.  Pins are resolved
// by name on every call; periph pin handles are safe for concurrent
// use, so no extra locking is needed here.
type gpioSignal struct{}

func pinByNumber(pin int) (gpio.PinIO, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("unknown pin GPIO%d", pin)
	}
	return p, nil
}

func (gpioSignal) SetPinMode(pin int, mode PinMode) error {
	p, err := pinByNumber(pin)
	if err != nil {
		return err
	}
	if mode == ModeInput {
		return p.In(gpio.PullDown, gpio.NoEdge)
	}
	return p.Out(gpio.Low)
}

func (gpioSignal) DigitalWrite(pin int, high bool) error {
	p, err := pinByNumber(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(high))
}

func (gpioSignal) DigitalRead(pin int) (bool, error) {
	p, err := pinByNumber(pin)
	if err != nil {
		return false, err
	}
	return p.Read() == gpio.High, nil
}

// lcdDisplay adapts the periph hd44780 device to the DisplayDriver
// contract.
type lcdDisplay struct {
	dev *hd44780.Dev
}

func (d *lcdDisplay) Clear() error {
	return d.dev.Reset()
}

func (d *lcdDisplay) PrintString(text string, col, row int) error {
	if err := validateCell(text, col, row); err != nil {
		return err
	}
	if err := d.dev.SetCursor(uint8(row), uint8(col)); err != nil {
		return err
	}
	return d.dev.Print(text)
}

// openHardware initialises periph host state and attaches the LCD.
// host.Init can safely be called multiple times; subsequent calls are
// no-ops.  An error here prevents the server from starting.
func openHardware(cfg Config) (DisplayDriver, SignalDriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("periph host init: %w", err)
	}
	outPin := func(n int) (gpio.PinOut, error) {
		p, err := pinByNumber(n)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	rs, err := outPin(lcdPins.rs)
	if err != nil {
		return nil, nil, err
	}
	e, err := outPin(lcdPins.e)
	if err != nil {
		return nil, nil, err
	}
	var data []gpio.PinOut
	for _, n := range []int{lcdPins.d4, lcdPins.d5, lcdPins.d6, lcdPins.d7} {
		p, err := outPin(n)
		if err != nil {
			return nil, nil, err
		}
		data = append(data, p)
	}
	dev, err := hd44780.New(data, rs, e)
	if err != nil {
		return nil, nil, fmt.Errorf("hd44780 init: %w", err)
	}
	log.Printf("hardware attached (device hint %s)", cfg.Device)
	return &lcdDisplay{dev: dev}, gpioSignal{}, nil
}
