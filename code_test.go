// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helloWorld(t *testing.T) *Code {
	t.Helper()
	c, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	require.Equal(t, 21, c.Size)
	return c
}

func TestCodeDefaults(t *testing.T) {
	c := helloWorld(t)
	assert.Equal(t, 8, c.Scale)
	assert.Equal(t, 4, c.Border)
	assert.Equal(t, 3, c.Stride)
	assert.False(t, c.Black(-1, 0))
	assert.False(t, c.Black(0, 21))
	assert.True(t, c.Black(0, 0))
	assert.False(t, c.Black(7, 0))
}

func TestEncodePBM(t *testing.T) {
	c := helloWorld(t)
	c.Scale, c.Border = 1, 0

	var b bytes.Buffer
	require.NoError(t, c.EncodePBM(&b))
	hdr := "P4\n21 21\n"
	require.True(t, strings.HasPrefix(b.String(), hdr))
	body := bytes.Clone(b.Bytes()[len(hdr):])
	require.Len(t, body, 21*3)
	for y := 0; y < 21; y++ {
		want := append([]byte(nil), c.Bitmap[y*3:y*3+3]...)
		want[2] &= 0xf8
		assert.Equal(t, want, body[y*3:y*3+3], "row %d", y)
	}

	b.Reset()
	c.Reverse = true
	require.NoError(t, c.EncodePBM(&b))
	rev := b.Bytes()[len(hdr):]
	for i := range rev {
		want := ^body[i]
		if i%3 == 2 {
			want &= 0xf8
		}
		assert.Equal(t, want, rev[i], "byte %d", i)
	}

	b.Reset()
	c.Reverse = false
	c.Scale, c.Border = 2, 1
	require.NoError(t, c.EncodePBM(&b))
	hdr = "P4\n46 46\n"
	require.True(t, strings.HasPrefix(b.String(), hdr))
	body = b.Bytes()[len(hdr):]
	require.Len(t, body, 46*6)
	// Quiet zone rows are white, the first finder row starts after
	// two white pixels.
	assert.Equal(t, make([]byte, 12), body[:12])
	assert.Equal(t, []byte{0x3f, 0xff}, body[12:14])

	c.Scale = 0
	assert.ErrorIs(t, c.EncodePBM(&b), ErrArgs)
}

func TestImage(t *testing.T) {
	c := helloWorld(t)
	img := c.Image()
	assert.Equal(t, image.Rect(0, 0, 232, 232), img.Bounds())
	assert.Equal(t, color.Palette{color.White, color.Black}, img.ColorModel())
	pi, ok := img.(image.PalettedImage)
	require.True(t, ok)
	assert.Equal(t, uint8(0), pi.ColorIndexAt(31, 31))
	assert.Equal(t, uint8(1), pi.ColorIndexAt(32, 32))
	assert.Equal(t, uint8(1), pi.ColorIndexAt(39, 39))
	assert.Equal(t, color.Black, img.At(32, 32))
	assert.Equal(t, color.White, img.At(0, 0))

	red := color.RGBA{0xff, 0, 0, 0xff}
	c.Palette = &[2]color.Color{red, color.White}
	c.Reverse = true
	img = c.Image()
	assert.Equal(t, red, img.At(32, 32))
	assert.Equal(t, color.White, img.At(0, 0))
}

func TestString(t *testing.T) {
	c := helloWorld(t)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 15)
	for i, l := range lines {
		assert.Equal(t, 29, utf8.RuneCountInString(l), "line %d", i)
	}
	assert.Equal(t, strings.Repeat("█", 29), lines[0])
	assert.Equal(t, strings.Repeat("█", 29), lines[1])
	// Row 0 of the top left finder is black, row 1 is black at the
	// edges.
	assert.True(t, strings.HasPrefix(lines[2], "████ ▄▄▄▄▄ █"), lines[2])

	c.Reverse = true
	lines = strings.Split(c.String(), "\n")
	assert.Equal(t, strings.Repeat(" ", 29), lines[0])

	c.Reverse, c.Border = false, 0
	lines = strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[10], "▄▄▄▄▄▄▄█"), lines[10])
}

func TestEncodeASCII(t *testing.T) {
	c := helloWorld(t)
	c.Border = 0
	var b bytes.Buffer
	require.NoError(t, c.EncodeASCII(&b))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 21)
	for _, l := range lines {
		assert.Len(t, l, 42)
	}
	assert.Equal(t, strings.Repeat("#", 14)+"  ", lines[0][:16])
	assert.Equal(t, "  "+strings.Repeat("#", 14), lines[0][26:])

	b.Reset()
	c.Reverse, c.Border = true, 1
	require.NoError(t, c.EncodeASCII(&b))
	lines = strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 23)
	assert.Equal(t, strings.Repeat("#", 46), lines[0])
	assert.Equal(t, "##"+strings.Repeat(" ", 14)+"##", lines[1][:18])

	c.Border = -1
	assert.ErrorIs(t, c.EncodeASCII(&b), ErrArgs)
}
