package epd

// Buffer is an in-memory Display implementation. It backs the renderer
// tests and the host-side preview tool, and it records the strings drawn
// through DrawText so status screens can be asserted on.
type Buffer struct {
	width, height int16 // physical dimensions at Rot0
	rot           Rotation
	pix           []Ink

	// Text collects every string drawn since the last clear.
	Text []string
	// Commits counts Display calls.
	Commits int
}

// NewBuffer returns a white w x h framebuffer at Rot0.
func NewBuffer(w, h int16) *Buffer {
	b := &Buffer{width: w, height: h}
	b.pix = make([]Ink, int(w)*int(h))
	return b
}

func (b *Buffer) Size() (int16, int16) {
	if b.rot == Rot90 || b.rot == Rot270 {
		return b.height, b.width
	}
	return b.width, b.height
}

func (b *Buffer) SetRotation(rot Rotation) { b.rot = rot }

func (b *Buffer) ClearBuffer() {
	for i := range b.pix {
		b.pix[i] = White
	}
	b.Text = nil
}

func (b *Buffer) SetInk(x, y int16, ink Ink) {
	w, h := b.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	px, py := b.xy(x, y)
	b.pix[int(py)*int(b.width)+int(px)] = ink
}

// InkAt reads back the ink at logical coordinates. Out-of-range reads
// return White.
func (b *Buffer) InkAt(x, y int16) Ink {
	w, h := b.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return White
	}
	px, py := b.xy(x, y)
	return b.pix[int(py)*int(b.width)+int(px)]
}

func (b *Buffer) DrawText(x, y int16, size uint8, ink Ink, s string) {
	b.Text = append(b.Text, s)
	DrawString(b, x, y, size, ink, s)
}

// Display is a no-op commit: the buffer is the panel.
func (b *Buffer) Display() error {
	b.Commits++
	return nil
}

// xy translates logical coordinates to the physical pixel array.
func (b *Buffer) xy(x, y int16) (int16, int16) {
	switch b.rot {
	case Rot90:
		return b.width - y - 1, x
	case Rot180:
		return b.width - x - 1, b.height - y - 1
	case Rot270:
		return y, b.height - x - 1
	}
	return x, y
}
