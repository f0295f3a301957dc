// Package bmp decodes the uncompressed bitmap container: the fixed 54-byte
// header variant at 1, 8 or 24 bits per pixel. The decoder validates the
// header and locates the pixel data; it never reads pixels itself, that is
// the renderer's job.
package bmp

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the length of the fixed file + info header.
const HeaderSize = 54

var (
	ErrTooShort               = errors.New("bmp: shorter than header")
	ErrBadSignature           = errors.New("bmp: missing BM signature")
	ErrUnsupportedDepth       = errors.New("bmp: unsupported bit depth")
	ErrUnsupportedCompression = errors.New("bmp: compressed pixel data")
	ErrBadDimensions          = errors.New("bmp: bad image dimensions")
	ErrBadOffset              = errors.New("bmp: pixel data outside file")
)

// Image is the decoded pixel source view: validated dimensions plus the
// location and layout of the pixel data.
type Image struct {
	Width        int32 // absolute, > 0
	Height       int32 // absolute, > 0
	BitsPerPixel uint16
	// TopDown is set when the first row in pixel memory is the top row
	// of the image (negative height in the header).
	TopDown bool
	// Stride is the byte distance between row starts, padded to a
	// 4-byte boundary.
	Stride int
	// Pixels is the pixel data region of the file buffer.
	Pixels []byte
}

// Decode validates buf as a whole bitmap file and returns its pixel source
// view. 8-bpp files are treated as raw grayscale; the palette is ignored.
func Decode(buf []byte) (*Image, error) {
	if len(buf) < HeaderSize {
		return nil, ErrTooShort
	}
	if buf[0] != 'B' || buf[1] != 'M' {
		return nil, ErrBadSignature
	}

	offset := binary.LittleEndian.Uint32(buf[10:14])
	width := int32(binary.LittleEndian.Uint32(buf[18:22]))
	height := int32(binary.LittleEndian.Uint32(buf[22:26]))
	planes := binary.LittleEndian.Uint16(buf[26:28])
	bpp := binary.LittleEndian.Uint16(buf[28:30])
	compression := binary.LittleEndian.Uint32(buf[30:34])

	if compression != 0 {
		return nil, ErrUnsupportedCompression
	}
	if bpp != 1 && bpp != 8 && bpp != 24 {
		return nil, ErrUnsupportedDepth
	}

	w := abs32(width)
	h := abs32(height)
	// abs of the minimum int32 stays negative, so this also rejects
	// magnitudes that do not fit in 31 bits.
	if w <= 0 || h <= 0 || planes != 1 {
		return nil, ErrBadDimensions
	}

	stride := (int64(bpp)*int64(w) + 31) / 32 * 4
	if int64(offset) > int64(len(buf)) {
		return nil, ErrBadOffset
	}
	// stride * h can overflow int64 for huge claimed dimensions, so the
	// room check divides instead of multiplying.
	if (int64(len(buf))-int64(offset))/stride < int64(h) {
		return nil, ErrBadOffset
	}

	return &Image{
		Width:        w,
		Height:       h,
		BitsPerPixel: bpp,
		TopDown:      height < 0,
		Stride:       int(stride),
		Pixels:       buf[offset:],
	}, nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
