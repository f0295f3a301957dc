package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	xbmp "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/inkframe/inkframe/bmp"
	"github.com/inkframe/inkframe/epd"
	"github.com/inkframe/inkframe/render"
)

const captionHeight = 16

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// fit scales src onto a white w x h canvas, preserving aspect ratio and
// centering the result. The resampling is done here on the host, where
// a proper filter is affordable; the device only ever sees 1:1-ish
// nearest-neighbor work.
func fit(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	sb := src.Bounds()
	scale := float64(w) / float64(sb.Dx())
	if s := float64(h) / float64(sb.Dy()); s < scale {
		scale = s
	}
	sw := int(float64(sb.Dx()) * scale)
	sh := int(float64(sb.Dy()) * scale)
	ox := (w - sw) / 2
	oy := (h - sh) / 2

	xdraw.CatmullRom.Scale(dst, image.Rect(ox, oy, ox+sw, oy+sh), src, sb, xdraw.Over, nil)
	return dst
}

// caption draws text centered in a white strip along the bottom edge.
func caption(img *image.RGBA, text string) {
	b := img.Bounds()
	dc := gg.NewContextForRGBA(img)

	dc.SetColor(color.White)
	dc.DrawRectangle(0, float64(b.Dy()-captionHeight), float64(b.Dx()), captionHeight)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.SetFontFace(basicfont.Face7x13)
	dc.DrawStringAnchored(text, float64(b.Dx())/2, float64(b.Dy())-captionHeight/2, 0.5, 0.35)
}

// preview runs data through the same decode, scale and quantize pipeline
// the firmware uses and returns the three-color result.
func preview(data []byte, w, h int16) (image.Image, error) {
	img, err := bmp.Decode(data)
	if err != nil {
		return nil, err
	}

	buf := epd.NewBuffer(w, h)
	buf.ClearBuffer()
	if err := render.Draw(buf, img); err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			out.SetRGBA(int(x), int(y), buf.InkAt(x, y).RGBA())
		}
	}
	return out, nil
}

func writeBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := xbmp.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
