//go:build tinygo

package il0373

import (
	"errors"
	"machine"
	"time"

	"tinygo.org/x/drivers"
)

// ErrBusyTimeout is returned when the panel's busy line does not release
// within the expected window.
var ErrBusyTimeout = errors.New("il0373: busy timeout")

// spiController drives the panel over a shared SPI bus with dedicated
// chip-select, data/command, reset and busy lines.
type spiController struct {
	bus  drivers.SPI
	cs   machine.Pin
	dc   machine.Pin
	rst  machine.Pin
	busy machine.Pin
}

// NewSPI returns a Device on a fully configured SPI bus. The control pins
// are configured here; the bus is expected to be shared, so the device only
// asserts cs for the duration of each transfer.
func NewSPI(bus drivers.SPI, cs, dc, rst, busy machine.Pin, width, height int16) *Device {
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cs.High()
	dc.Configure(machine.PinConfig{Mode: machine.PinOutput})
	dc.High()
	rst.Configure(machine.PinConfig{Mode: machine.PinOutput})
	rst.High()
	busy.Configure(machine.PinConfig{Mode: machine.PinInput})

	ctrl := &spiController{bus: bus, cs: cs, dc: dc, rst: rst, busy: busy}
	return New(ctrl, width, height)
}

func (c *spiController) sendCommand(cmd uint8) {
	c.dc.Low() // command mode
	c.cs.Low()
	c.bus.Transfer(cmd)
	c.cs.High()
	c.dc.High() // back to data mode
}

func (c *spiController) sendData(data []uint8) {
	c.cs.Low()
	c.bus.Tx(data, nil)
	c.cs.High()
}

func (c *spiController) reset() {
	c.rst.Low()
	time.Sleep(10 * time.Millisecond)
	c.rst.High()
	time.Sleep(200 * time.Millisecond)
}

// waitUntilIdle polls the busy line until the panel reports ready. The
// IL0373 holds busy low while a refresh is in progress.
func (c *spiController) waitUntilIdle(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for !c.busy.Get() {
		if time.Now().After(deadline) {
			return ErrBusyTimeout
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
