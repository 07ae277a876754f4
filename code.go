// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"errors"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/unixdj/qrenc/coding"
)

// ErrArgs is returned by renderers for a Code with invalid Scale or
// Border.
var ErrArgs = errors.New("qr: invalid arguments")

// A Code is a square pixel grid.
// It implements image.Image and PBM and text encoding.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version coding.Version // QR version
	Level   Level          // error correction level
	Mask    int            // mask pattern

	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Reverse bool            // swap colours
	Palette *[2]color.Color // background and foreground; nil for white and black
}

func newCode(cc *coding.Code, v coding.Version, l Level) *Code {
	return &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Stride:  cc.Stride,
		Version: v,
		Level:   l,
		Mask:    cc.Mask,
		Scale:   8,
		Border:  4,
	}
}

// Black returns true if the pixel at (x,y) is black.
// Pixels outside the grid are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

func (c *Code) isValid() bool {
	return c.Scale > 0 && c.Border >= 0 && c.Size > 0 &&
		c.Stride >= (c.Size+7)>>3 && len(c.Bitmap) >= c.Size*c.Stride
}

// palette returns the background and foreground colours.
func (c *Code) palette() color.Palette {
	p := color.Palette{color.White, color.Black}
	if c.Palette != nil {
		p[0], p[1] = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		p[0], p[1] = p[1], p[0]
	}
	return p
}

// Image returns an Image displaying the code, including the quiet
// zone.  The image uses a two colour palette.
func (c *Code) Image() image.Image {
	return &codeImage{c, c.palette()}
}

// codeImage implements image.PalettedImage.
type codeImage struct {
	*Code
	pal color.Palette
}

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if x < 0 || y < 0 || c.Scale <= 0 {
		return 0
	}
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return 1
	}
	return 0
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

func (c *codeImage) ColorModel() color.Model {
	return c.pal
}

// String returns the code as UTF-8 text using half blocks, two QR
// pixels per character cell, for a terminal with light text on a dark
// background.  Reverse swaps the colours.  Scale is ignored.
func (c *Code) String() string {
	blocks := [4]string{"█", "▀", "▄", " "}
	if c.Reverse {
		blocks = [4]string{" ", "▄", "▀", "█"}
	}
	bord := max(c.Border, 0)
	var b strings.Builder
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			n := 0
			if c.Black(x, y) {
				n = 2
			}
			if y+1 < c.Size+bord && c.Black(x, y+1) {
				n++
			}
			b.WriteString(blocks[n])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeASCII writes the code to w as ASCII text, two characters per
// QR pixel, "#" for black and " " for white.  Reverse swaps them.
// Scale is ignored.
func (c *Code) EncodeASCII(w io.Writer) error {
	if c.Border < 0 {
		return ErrArgs
	}
	black, white := byte('#'), byte(' ')
	if c.Reverse {
		black, white = white, black
	}
	bord := c.Border
	pix := c.Size + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < c.Size+bord; y++ {
		for x := -bord; x < c.Size+bord; x++ {
			p := white
			if c.Black(x, y) {
				p = black
			}
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
