// Package epd defines the raster contract the rendering pipeline draws
// against: a framebuffer of tricolor ink states with explicit commit
// semantics. Panel drivers implement Display; tests and host tools use the
// in-memory Buffer.
package epd

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Ink is one of the three stable optical states a tricolor e-paper cell
// can hold.
type Ink uint8

const (
	White Ink = iota
	Black
	Red
)

// Rotation is the clock-wise rotation of the logical coordinate space.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Display is an abstract raster sink. Pixel writes mutate a framebuffer;
// nothing reaches the physical panel until Display is called. Out-of-range
// coordinates are silently ignored. SetRotation must be called before the
// first pixel write after a clear.
type Display interface {
	// Size returns the logical dimensions under the current rotation.
	Size() (int16, int16)
	SetRotation(Rotation)
	// ClearBuffer sets the entire framebuffer to White.
	ClearBuffer()
	SetInk(x, y int16, ink Ink)
	// DrawText rasterizes a short ASCII string with its baseline at y.
	// No guarantees beyond bounds-clipping.
	DrawText(x, y int16, size uint8, ink Ink, s string)
	// Display commits the framebuffer to the physical panel. It is
	// synchronous and slow (seconds) and leaves the buffer unchanged.
	Display() error
}

// RGBA returns the color value an ink state draws as.
func (ink Ink) RGBA() color.RGBA {
	switch ink {
	case Black:
		return color.RGBA{A: 0xff}
	case Red:
		return color.RGBA{R: 0xff, A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}

// ColorInk maps an RGBA value onto the three ink states: reddish values to
// Red, dark values to Black, everything else to White.
func ColorInk(c color.RGBA) Ink {
	if c.R >= 0x80 && c.G < 0x80 && c.B < 0x80 {
		return Red
	}
	if c.R < 0x80 && c.G < 0x80 && c.B < 0x80 {
		return Black
	}
	return White
}

// inkWriter adapts a Display to the Displayer shape tinyfont draws to.
type inkWriter struct {
	d Display
}

func (w inkWriter) Size() (int16, int16) { return w.d.Size() }

func (w inkWriter) SetPixel(x, y int16, c color.RGBA) { w.d.SetInk(x, y, ColorInk(c)) }

func (w inkWriter) Display() error { return nil }

// DrawString rasterizes s into d with its baseline at y. Size 1 selects the
// small face, anything larger the bold one. Display implementations use it
// to satisfy the DrawText operation.
func DrawString(d Display, x, y int16, size uint8, ink Ink, s string) {
	font := &freemono.Regular9pt7b
	if size >= 2 {
		font = &freemono.Bold12pt7b
	}
	tinyfont.WriteLine(inkWriter{d}, font, x, y, s, ink.RGBA())
}
