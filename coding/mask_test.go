// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// gridCode returns a Code of size siz with pixels set by black.
func gridCode(siz int, black func(x, y int) bool) *Code {
	stride := (siz + 7) >> 3
	c := &Code{Bitmap: make([]byte, siz*stride), Size: siz, Stride: stride}
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			if black(x, y) {
				c.Bitmap[y*stride+x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return c
}

func TestPenaltySynthetic(t *testing.T) {
	tests := []struct {
		name  string
		black func(x, y int) bool
		want  [4]int
	}{
		{"white", func(x, y int) bool { return false }, [4]int{798, 1200, 0, 90}},
		{"black", func(x, y int) bool { return true }, [4]int{798, 1200, 0, 90}},
		{"checkerboard", func(x, y int) bool { return (x+y)%2 == 0 }, [4]int{0, 0, 0, 0}},
		{"stripes", func(x, y int) bool { return x%2 == 0 }, [4]int{
			21 * 19, // one run per column
			0,
			0,
			0, // 231 of 441 black
		}},
	}
	for _, tt := range tests {
		c := gridCode(21, tt.black)
		assert.Equal(t, tt.want, c.Penalties(), tt.name)
		assert.Equal(t, tt.want[0]+tt.want[1]+tt.want[2]+tt.want[3], c.Penalty(), tt.name)
	}
}

func TestLineScore(t *testing.T) {
	tests := []struct {
		line      []byte
		run, find int
	}{
		{[]byte{1, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0}, 0, 80},
		{[]byte{0, 0, 0, 0, 1, 0, 1, 1, 1, 0, 1, 1}, 0, 0},
		{[]byte{1, 1, 0, 1, 1, 1, 0, 1, 0, 0, 0, 0}, 0, 0},
		{[]byte{0, 1, 0, 1, 1, 1, 0, 1, 1, 0, 0, 0, 0}, 0, 0},
		{[]byte{1, 1, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0}, 4 + 6, 80},
		{[]byte{1, 1, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 1}, 4 + 5, 40},
		{[]byte{1, 1, 0, 1, 0, 1, 1, 1, 0, 1, 1}, 0, 0},
		{[]byte{0, 1, 0, 1, 1, 1, 0, 1, 0, 0, 0, 1}, 0, 40},
		{[]byte{0, 1, 0, 1, 1, 1, 0, 1, 0, 1, 0, 0}, 0, 40},
		{[]byte{1, 0, 1, 0, 1, 1, 1, 0, 1, 0, 1, 0}, 0, 0},
		{[]byte{1, 1, 1, 1, 1, 1, 1}, 5, 0},
		{[]byte{1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0}, 3 + 4, 0},
		{[]byte{1, 1, 1, 1, 0}, 0, 0},
		{nil, 0, 0},
	}
	for _, tt := range tests {
		run, find := lineScore(tt.line)
		assert.Equal(t, tt.run, run, "%v", tt.line)
		assert.Equal(t, tt.find, find, "%v", tt.line)
	}
}

// streamFinder counts finder-like patterns in line the way a scanner
// does, keeping the lengths of the last seven runs while walking the
// line and checking them at the end of every light run.
func streamFinder(line []byte) int {
	siz := len(line)
	var hist [7]int // most recent first
	push := func(n int) {
		if hist[0] == 0 {
			n += siz
		}
		copy(hist[1:], hist[:6])
		hist[0] = n
	}
	count := func() int {
		n := hist[1]
		if n == 0 || hist[2] != n || hist[3] != 3*n || hist[4] != n || hist[5] != n {
			return 0
		}
		k := 0
		if hist[0] >= 4*n && hist[6] >= n {
			k++
		}
		if hist[6] >= 4*n && hist[0] >= n {
			k++
		}
		return k
	}
	find := 0
	var colour byte
	r := 0
	for _, v := range line {
		if v == colour {
			r++
			continue
		}
		push(r)
		if colour == 0 {
			find += count() * findScore
		}
		colour, r = v, 1
	}
	if colour != 0 {
		push(r)
		r = 0
	}
	push(r + siz)
	return find + count()*findScore
}

func TestLineScoreFinderProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("finder score matches a streaming count", prop.ForAll(
		func(bits []bool) bool {
			line := make([]byte, len(bits))
			for i, b := range bits {
				if b {
					line[i] = 1
				}
			}
			_, find := lineScore(line)
			return find == streamFinder(line)
		},
		gen.SliceOf(gen.Bool()),
	))
	properties.TestingRun(t)

	// Every line of 14 pixels.
	const n = 14
	line := make([]byte, n)
	for v := 0; v < 1<<n; v++ {
		for i := range line {
			line[i] = byte(v>>i&1)
		}
		if _, find := lineScore(line); find != streamFinder(line) {
			t.Fatalf("%v: lineScore %d, streaming count %d", line, find, streamFinder(line))
		}
	}
}

func TestBalancePenalty(t *testing.T) {
	// 10x10 grids: n black pixels in the first rows.
	tests := []struct {
		dark, want int
	}{
		{50, 0}, {45, 0}, {55, 0}, {44, 10}, {60, 10}, {61, 20}, {40, 10}, {39, 20}, {0, 90}, {100, 90},
	}
	for _, tt := range tests {
		c := gridCode(10, func(x, y int) bool { return y*10+x < tt.dark })
		assert.Equal(t, tt.want, c.Penalties()[3], "%d%% black", tt.dark)
	}
}

func TestBlack(t *testing.T) {
	c := gridCode(9, func(x, y int) bool { return x == 8 && y == 1 })
	assert.True(t, c.Black(8, 1))
	assert.False(t, c.Black(7, 1))
	assert.False(t, c.Black(-1, 0))
	assert.False(t, c.Black(0, 9))
	assert.False(t, c.Black(9, 1))
}
