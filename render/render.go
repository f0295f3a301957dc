// Package render draws a decoded bitmap into a tricolor framebuffer:
// uniform nearest-neighbor scaling to fit the panel, centered, with each
// source pixel quantized to one of the three ink states.
package render

import (
	"errors"

	"github.com/inkframe/inkframe/bmp"
	"github.com/inkframe/inkframe/epd"
)

// ErrImageTooLarge is returned when the scale factor collapses to zero and
// no pixel of the source would survive.
var ErrImageTooLarge = errors.New("render: image too large to scale")

// Draw scales img uniformly to fit d, centers it and writes quantized
// pixels. The caller owns clearing the buffer beforehand and committing
// afterwards.
func Draw(d epd.Display, img *bmp.Image) error {
	dw, dh := d.Size()

	scale := float32(dw) / float32(img.Width)
	if s := float32(dh) / float32(img.Height); s < scale {
		scale = s
	}
	sw := int32(float32(img.Width) * scale)
	sh := int32(float32(img.Height) * scale)
	if sw <= 0 || sh <= 0 {
		return ErrImageTooLarge
	}

	ox := (int32(dw) - sw) / 2
	oy := (int32(dh) - sh) / 2

	for y := int32(0); y < sh; y++ {
		srcY := int32(float32(y) / scale)
		// Float rounding can land one past the last source row.
		if srcY >= img.Height {
			srcY = img.Height - 1
		}
		if !img.TopDown {
			srcY = img.Height - 1 - srcY
		}
		row := img.Pixels[int(srcY)*img.Stride:]

		for x := int32(0); x < sw; x++ {
			srcX := int32(float32(x) / scale)
			if srcX >= img.Width {
				srcX = img.Width - 1
			}

			var ink epd.Ink
			switch img.BitsPerPixel {
			case 24:
				// Pixel bytes are stored B, G, R.
				off := int(srcX) * 3
				ink = Quantize(row[off+2], row[off+1], row[off])
			case 8:
				// Palette deliberately ignored; the byte is taken
				// as grayscale intensity.
				g := row[srcX]
				ink = Quantize(g, g, g)
			case 1:
				bit := row[srcX/8] >> uint(7-srcX%8) & 1
				if bit == 1 {
					ink = epd.Black
				} else {
					ink = epd.White
				}
			}
			d.SetInk(int16(ox+x), int16(oy+y), ink)
		}
	}
	return nil
}

// Quantize maps an RGB triple onto the three ink states: dark pixels are
// black, warm bright pixels red, everything else white.
func Quantize(r, g, b uint8) epd.Ink {
	gray := (30*int(r) + 59*int(g) + 11*int(b)) / 100
	if gray < 85 {
		return epd.Black
	}
	if int(r) > 128 && r > g && r > b && gray > 100 {
		return epd.Red
	}
	return epd.White
}
