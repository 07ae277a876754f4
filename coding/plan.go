// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Plan describes how to construct a QR code
// with a specific version and level.
//
// Bitmaps hold one bit per pixel, most significant bit first,
// Stride bytes per row.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of pixels on a side
	Stride   int // number of bytes per bitmap row

	Map     []byte    // pixel map: 0 is data or checksum, 1 is other
	Pattern [8][]byte // position and alignment boxes, timing, format, mask
}

// Plans are created the first time a combination of version and
// level is used and are read only afterwards.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// NewPlan returns a Plan for a QR code with the given version and
// level.  The Plan is shared and must not be modified.
func NewPlan(version Version, level Level) (*Plan, error) {
	if !version.IsValid() {
		return nil, ErrVersion
	}
	if !level.IsValid() {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() { p.p = vplan(version, level) })
	return p.p, nil
}

// Reserved reports whether the pixel at (x, y) belongs to a function
// pattern or format or version information.
func (p *Plan) Reserved(x, y int) bool {
	return p.Map[y*p.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// A planner draws function patterns.
type planner struct {
	*Plan
	bitmap []byte
}

// set reserves the pixel at (x, y) and sets its colour.
func (p *planner) set(x, y int, black bool) {
	off, bit := y*p.Stride+x>>3, byte(0x80)>>(x&7)
	p.Map[off] |= bit
	if black {
		p.bitmap[off] |= bit
	} else {
		p.bitmap[off] &^= bit
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// box draws a square pattern centred at (cx, cy) with the given
// radius.  Rings listed in light are white, others black.  Pixels
// outside the code are skipped.
func (p *planner) box(cx, cy, radius int, light ...int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= p.Size || y >= p.Size {
				continue
			}
			ring := max(abs(dx), abs(dy))
			black := true
			for _, r := range light {
				if ring == r {
					black = false
				}
			}
			p.set(x, y, black)
		}
	}
}

// vplan creates a Plan for the given version and level.
func vplan(v Version, l Level) *Plan {
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := planner{
		Plan: &Plan{
			Version:  v,
			Level:    l,
			DataBits: v.DataBits(l),
			Size:     siz,
			Stride:   stride,
			Map:      make([]byte, stride*siz),
		},
		bitmap: make([]byte, stride*siz),
	}

	// Timing markers (overwritten by boxes).
	for i := 0; i < siz; i++ {
		p.set(6, i, i&1 == 0)
		p.set(i, 6, i&1 == 0)
	}

	// Position boxes with separators: 7x7 box in 9x9 white square.
	p.box(3, 3, 4, 2, 4)
	p.box(siz-4, 3, 4, 2, 4)
	p.box(3, siz-4, 4, 2, 4)

	// Alignment boxes, except where they would overlap position boxes.
	pos := vtab[v].align
	last := len(pos) - 1
	for i, x := range pos {
		for j, y := range pos {
			if i == 0 && (j == 0 || j == last) || i == last && j == 0 {
				continue
			}
			p.box(x, y, 2, 1)
		}
	}

	// Format areas.  The bits are set per mask by fplan.
	for i := 0; i < 9; i++ {
		if i != 6 {
			p.set(8, i, false)
			p.set(i, 8, false)
		}
	}
	for i := 0; i < 8; i++ {
		p.set(siz-1-i, 8, false)
		p.set(8, siz-1-i, false)
	}

	// One lonely black pixel
	p.set(8, siz-8, true)

	// Version pattern: 6x3 pixels at (0, siz-11), 3x6 at (siz-11, 0).
	if vb := vtab[v].pattern; vb != 0 {
		for i := 0; i < 18; i++ {
			black := vb>>i&1 != 0
			a, b := siz-11+i%3, i/3
			p.set(a, b, black)
			p.set(b, a, black)
		}
	}

	for mask := range p.Pattern {
		pat := make([]byte, len(p.bitmap))
		copy(pat, p.bitmap)
		fplan(FormatBits(l, mask), siz, stride, pat)
		mplan(mask, p.Plan, pat)
		p.Pattern[mask] = pat
	}
	return p.Plan
}

// fplan sets the format bits in the bitmap b.
func fplan(fb uint16, siz, stride int, b []byte) {
	set := func(x, y, i int) {
		if fb>>i&1 != 0 {
			b[y*stride+x>>3] |= 0x80 >> (x & 7)
		}
	}
	// Around the top left position box.
	for i := 0; i < 6; i++ {
		set(8, i, i)
	}
	set(8, 7, 6)
	set(8, 8, 7)
	set(7, 8, 8)
	for i := 9; i < 15; i++ {
		set(14-i, 8, i)
	}
	// Below the top right and right of the bottom left position box.
	for i := 0; i < 8; i++ {
		set(siz-1-i, 8, i)
	}
	for i := 8; i < 15; i++ {
		set(8, siz-15+i, i)
	}
}

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
//
// MaskFunc[mask](y, x) reports whether the mask inverts the pixel at
// row y, column x.
var MaskFunc = [8]func(y, x int) bool{
	func(y, x int) bool { return (y+x)%2 == 0 },
	func(y, x int) bool { return y%2 == 0 },
	func(y, x int) bool { return x%3 == 0 },
	func(y, x int) bool { return (y+x)%3 == 0 },
	func(y, x int) bool { return (y/2+x/3)%2 == 0 },
	func(y, x int) bool { return y*x%2+y*x%3 == 0 },
	func(y, x int) bool { return (y*x%2+y*x%3)%2 == 0 },
	func(y, x int) bool { return ((y+x)%2+y*x%3)%2 == 0 },
}

// mplan sets the mask bits for data and checksum pixels in the
// bitmap b.
func mplan(mask int, p *Plan, b []byte) {
	f := MaskFunc[mask]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.Reserved(x, y) && f(y, x) {
				b[y*p.Stride+x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
}

// Serialise writes bits from s to the bitmap in zigzag scan order:
// two pixel wide columns from right to left, alternately upwards and
// downwards, skipping the vertical timing pattern and reserved pixels.
func (p *Plan) Serialise(s BitStream, bitmap []byte) {
	siz := p.Size
	up := true
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 { // vertical timing strip
			right--
		}
		for i := 0; i < siz; i++ {
			y := i
			if up {
				y = siz - 1 - i
			}
			for x := right; x >= right-1; x-- {
				if !p.Reserved(x, y) && s.Next() != 0 {
					bitmap[y*p.Stride+x>>3] |= 0x80 >> (x & 7)
				}
			}
		}
		up = !up
	}
}
