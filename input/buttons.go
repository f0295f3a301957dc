//go:build tinygo

package input

import (
	"machine"
	"time"
)

// debounce is the minimum spacing between presses of the same button.
const debounce = 50 * time.Millisecond

// Pins names the GPIO each button is wired to. Buttons pull the line to
// ground, so the pins run with pull-ups and fire on the falling edge.
type Pins struct {
	Up     machine.Pin
	Select machine.Pin
	Down   machine.Pin
}

// Interrupt handlers cannot capture closures on this target, so the
// wiring lives in package state.
var (
	pins   Pins
	source *Source
	last   [3]int64
)

// Configure sets up the button pins and routes their falling edges into
// src.
func Configure(p Pins, src *Source) {
	pins = p
	source = src

	for _, pin := range []machine.Pin{p.Up, p.Select, p.Down} {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		pin.SetInterrupt(machine.PinFalling, handlePress)
	}
}

func handlePress(pin machine.Pin) {
	if source == nil {
		return
	}
	var b Button
	switch pin {
	case pins.Up:
		b = Up
	case pins.Select:
		b = Select
	case pins.Down:
		b = Down
	default:
		return
	}

	now := time.Now().UnixNano()
	if now-last[b] < int64(debounce) {
		return
	}
	last[b] = now

	source.Push(Event{Button: b, Pressed: true})
}

// ConfigureWakeup detaches the edge handlers and leaves the pins pulled
// up so a press can be observed while the rest of the system sleeps.
func ConfigureWakeup() {
	for _, pin := range []machine.Pin{pins.Up, pins.Select, pins.Down} {
		pin.SetInterrupt(0, nil)
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
}

// WakeAsserted reports whether any button is currently held down.
func WakeAsserted() bool {
	return !pins.Up.Get() || !pins.Select.Get() || !pins.Down.Get()
}
