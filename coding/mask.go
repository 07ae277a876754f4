// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
	Mask   int    // mask pattern applied to data pixels
}

// Black reports whether the pixel at (x, y) is black.
// Pixels outside the grid are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

func (c *Code) pixel(x, y int) byte {
	return c.Bitmap[y*c.Stride+x>>3] >> (7 &^ x) & 1
}

// Penalty rule weights.
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
const (
	minRun    = 5  // runs of at least minRun pixels
	runDelta  = -2 // score the length plus runDelta
	boxScore  = 3  // per 2x2 box of one colour
	findScore = 40 // per finder-like pattern
	balScore  = 10 // per 5% away from 50% black
	quietLen  = 4  // light run beside a finder-like pattern, in units
)

// Penalty returns the penalty value used for choosing the mask.
// Lower is better.
func (c *Code) Penalty() int {
	p := c.Penalties()
	return p[0] + p[1] + p[2] + p[3]
}

// Penalties returns the four components of the penalty:
//
//   - runs of n >= 5 pixels of one colour in a row or column: n-2
//   - 2x2 boxes of one colour, possibly overlapping: 3 each
//   - black, white, black, white, black runs in the ratio 1:1:3:1:1
//     in a row or column, with white four times the unit wide on
//     one side: 40 for each such side; pixels outside the code are
//     white
//   - colour balance: 10 for every full 5% away from 50% black
func (c *Code) Penalties() (p [4]int) {
	siz := c.Size
	if siz == 0 {
		return p
	}
	row := make([]byte, siz)
	col := make([]byte, siz)
	var prev []byte
	dark := 0
	for y := 0; y < siz; y++ {
		for x := range row {
			row[x] = c.pixel(x, y)
			dark += int(row[x])
		}
		run, find := lineScore(row)
		p[0] += run
		p[2] += find
		if prev != nil {
			for x := 1; x < siz; x++ {
				if v := row[x]; v == row[x-1] && v == prev[x] && v == prev[x-1] {
					p[1] += boxScore
				}
			}
		} else {
			prev = make([]byte, siz)
		}
		copy(prev, row)
	}
	for x := 0; x < siz; x++ {
		for y := range col {
			col[y] = c.pixel(x, y)
		}
		run, find := lineScore(col)
		p[0] += run
		p[2] += find
	}

	// k is the smallest integer such that black pixels are within
	// (50±5(k+1))% of the total.
	total := siz * siz
	dev := dark*20 - total*10
	if dev < 0 {
		dev = -dev
	}
	p[3] = max((dev+total-1)/total-1, 0) * balScore
	return p
}

// lineScore returns the run and finder penalties of a row or column.
//
// A finder-like pattern is a sequence of runs dark, light, dark, light,
// dark in the ratio 1:1:3:1:1, with a light run of at least quietLen
// times the unit on one side and at least one unit on the other.
// Pixels outside the line are light.
func lineScore(line []byte) (run, find int) {
	siz := len(line)
	r := 1
	for i := 1; i <= siz; i++ {
		if i < siz && line[i] == line[i-1] {
			r++
			continue
		}
		if r >= minRun {
			run += r + runDelta
		}
		r = 1
	}

	// Run lengths, alternating light and dark, starting and ending
	// with light runs extended by the quiet zone.
	runs := make([]int, 1, siz+2)
	runs[0] = siz
	var c byte
	for _, v := range line {
		if v != c {
			runs = append(runs, 0)
			c = v
		}
		runs[len(runs)-1]++
	}
	if c != 0 {
		runs = append(runs, 0)
	}
	runs[len(runs)-1] += siz

	for i := 6; i < len(runs); i += 2 {
		h := runs[i-6 : i+1]
		n := h[1]
		if h[2] != n || h[3] != 3*n || h[4] != n || h[5] != n {
			continue
		}
		if h[0] >= n && h[6] >= quietLen*n {
			find += findScore
		}
		if h[6] >= n && h[0] >= quietLen*n {
			find += findScore
		}
	}
	return run, find
}
