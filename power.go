//go:build tinygo

package main

import (
	"time"

	"github.com/inkframe/inkframe/il0373"
	"github.com/inkframe/inkframe/input"
)

// wakePoll is how often the held-button check runs while sleeping.
const wakePoll = 100 * time.Millisecond

// sleeper approximates deep sleep in software: the panel controller is
// powered down and the CPU idles until a button is pressed.
//
// TODO: use the chip's power management deep sleep once TinyGo exposes
// it for this target; the wake wiring (buttons pulled up, active low)
// already matches what the hardware wake source needs.
type sleeper struct {
	panel *il0373.Device
	pins  input.Pins
	src   *input.Source
}

func (s *sleeper) ConfigureWakeup() {
	input.ConfigureWakeup()
}

// DeepSleep blocks until a button is held, then brings the panel back
// and re-arms the button interrupts.
func (s *sleeper) DeepSleep() {
	s.panel.Sleep()

	for !input.WakeAsserted() {
		time.Sleep(wakePoll)
	}

	if err := s.panel.Configure(); err != nil {
		printError("failed to wake panel", err)
	}
	input.Configure(s.pins, s.src)
}
