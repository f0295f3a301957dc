// Package il0373 drives IL0373-based tricolor e-paper panels such as the
// 2.9" 296x128 black/white/red FeatherWing. The device keeps one bit-plane
// framebuffer per ink and streams both to the controller on commit.
package il0373

import (
	"image/color"
	"time"

	"github.com/inkframe/inkframe/epd"
)

// controller is the byte-level interface to the panel electronics. The SPI
// implementation lives behind the tinygo build tag; tests substitute a
// recording fake.
type controller interface {
	sendCommand(cmd uint8)
	sendData(data []uint8)
	reset()
	waitUntilIdle(timeout time.Duration) error
}

// Native source/gate geometry of the 2.9" panel. The electrical scan is
// 128 sources wide, so rotations 1 and 3 present the portrait orientation.
const (
	defaultWidth  = 128
	defaultHeight = 296
)

const (
	powerOnTimeout = 2 * time.Second
	// A full tricolor refresh takes on the order of 15 s.
	refreshTimeout = 30 * time.Second
)

// Device is an IL0373 panel. It implements epd.Display.
type Device struct {
	ctrl   controller
	width  int16 // electrical width, multiple of 8
	height int16
	rot    epd.Rotation
	black  []uint8
	red    []uint8
}

// New returns a device on ctrl with the given electrical geometry. Zero
// dimensions select the 2.9" panel. The framebuffer starts out white.
func New(ctrl controller, width, height int16) *Device {
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}
	d := &Device{
		ctrl:   ctrl,
		width:  width,
		height: height,
	}
	n := int(width) / 8 * int(height)
	d.black = make([]uint8, n)
	d.red = make([]uint8, n)
	d.ClearBuffer()
	return d
}

// Configure resets the panel and loads the power-on register set. It must
// be called before the first commit and again after Sleep.
func (d *Device) Configure() error {
	d.ctrl.reset()

	d.ctrl.sendCommand(cmdBoosterSoftStart)
	d.ctrl.sendData([]uint8{0x17, 0x17, 0x17})
	d.ctrl.sendCommand(cmdPowerOn)
	if err := d.ctrl.waitUntilIdle(powerOnTimeout); err != nil {
		return err
	}

	d.ctrl.sendCommand(cmdPanelSetting)
	d.ctrl.sendData([]uint8{0xcf})
	d.ctrl.sendCommand(cmdVcomDataInterval)
	d.ctrl.sendData([]uint8{0x37})
	d.ctrl.sendCommand(cmdPLLControl)
	d.ctrl.sendData([]uint8{0x29})
	d.ctrl.sendCommand(cmdResolutionSetting)
	d.ctrl.sendData([]uint8{uint8(d.width), uint8(d.height >> 8), uint8(d.height)})
	d.ctrl.sendCommand(cmdVcmDCSetting)
	d.ctrl.sendData([]uint8{0x0a})
	return nil
}

// Size returns the logical dimensions under the current rotation.
func (d *Device) Size() (int16, int16) {
	if d.rot == epd.Rot90 || d.rot == epd.Rot270 {
		return d.width, d.height
	}
	return d.height, d.width
}

// SetRotation sets the clock-wise rotation of the logical coordinates.
func (d *Device) SetRotation(rot epd.Rotation) { d.rot = rot }

// ClearBuffer sets both planes to white. The panel itself is untouched
// until the next commit.
func (d *Device) ClearBuffer() {
	for i := range d.black {
		d.black[i] = 0xff
		d.red[i] = 0xff
	}
}

// SetInk writes one pixel. Out-of-range coordinates are silently ignored.
func (d *Device) SetInk(x, y int16, ink epd.Ink) {
	w, h := d.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	px, py := d.xy(x, y)
	idx := int(py)*(int(d.width)/8) + int(px)/8
	mask := uint8(0x80) >> uint8(px%8)
	// A cleared bit deposits ink in that plane; both set means white.
	switch ink {
	case epd.Black:
		d.black[idx] &^= mask
		d.red[idx] |= mask
	case epd.Red:
		d.black[idx] |= mask
		d.red[idx] &^= mask
	default:
		d.black[idx] |= mask
		d.red[idx] |= mask
	}
}

// SetPixel satisfies the drivers.Displayer shape so generic drawing code
// can target the panel directly.
func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	d.SetInk(x, y, epd.ColorInk(c))
}

// DrawText rasterizes a short status string with its baseline at y.
func (d *Device) DrawText(x, y int16, size uint8, ink epd.Ink, s string) {
	epd.DrawString(d, x, y, size, ink, s)
}

// Display commits the framebuffer: both planes are streamed to the
// controller and a refresh is started. The call blocks until the panel
// reports idle or the refresh timeout elapses. The buffer is unchanged
// either way.
func (d *Device) Display() error {
	d.ctrl.sendCommand(cmdDataStartTransmission1)
	d.ctrl.sendData(d.black)
	d.ctrl.sendCommand(cmdDataStartTransmission2)
	d.ctrl.sendData(d.red)
	d.ctrl.sendCommand(cmdDisplayRefresh)
	return d.ctrl.waitUntilIdle(refreshTimeout)
}

// Sleep powers the panel down into its own deep-sleep mode. Configure must
// run again before the next commit.
func (d *Device) Sleep() {
	d.ctrl.sendCommand(cmdPowerOff)
	_ = d.ctrl.waitUntilIdle(powerOnTimeout)
	d.ctrl.sendCommand(cmdDeepSleep)
	d.ctrl.sendData([]uint8{deepSleepCheckCode})
}

// xy translates logical coordinates to electrical source/gate coordinates.
// Rotation 1 is the identity: the portrait orientation matches the scan.
func (d *Device) xy(x, y int16) (int16, int16) {
	switch d.rot {
	case epd.Rot0:
		return y, d.height - 1 - x
	case epd.Rot180:
		return d.width - 1 - y, x
	case epd.Rot270:
		return d.width - 1 - x, d.height - 1 - y
	}
	return x, y
}
