// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacity(t *testing.T) {
	tests := []struct {
		v     Version
		bytes int
		data  [4]int
		align []int
	}{
		{1, 26, [4]int{19, 16, 13, 9}, nil},
		{2, 44, [4]int{34, 28, 22, 16}, []int{6, 18}},
		{5, 134, [4]int{108, 86, 62, 46}, []int{6, 30}},
		{7, 196, [4]int{156, 124, 88, 66}, []int{6, 22, 38}},
		{10, 346, [4]int{274, 216, 154, 122}, []int{6, 28, 50}},
		{27, 1828, [4]int{1468, 1128, 808, 628}, []int{6, 34, 62, 90, 118}},
		{32, 2465, [4]int{1955, 1541, 1115, 845}, []int{6, 34, 60, 86, 112, 138}},
		{40, 3706, [4]int{2956, 2334, 1666, 1276}, []int{6, 30, 58, 86, 114, 142, 170}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bytes, tt.v.Bytes(), "version %d", tt.v)
		assert.Equal(t, tt.align, vtab[tt.v].align, "version %d", tt.v)
		for l := L; l <= H; l++ {
			n, err := Capacity(tt.v, l)
			require.NoError(t, err)
			assert.Equal(t, tt.data[l], n, "version %d-%s", tt.v, l)
			assert.Equal(t, n*8, tt.v.DataBits(l))
		}
	}
}

func TestCapacityErrors(t *testing.T) {
	for _, v := range []Version{-1, 0, 41, 100} {
		_, err := Capacity(v, M)
		assert.ErrorIs(t, err, ErrVersion, "version %d", v)
	}
	for _, l := range []Level{-1, 4} {
		_, err := Capacity(1, l)
		assert.ErrorIs(t, err, ErrLevel, "level %d", l)
	}
}

func TestCapacityMonotonic(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			n := v.DataBytes(l)
			if l > L && n >= v.DataBytes(l-1) {
				t.Errorf("%s-%s: %d data bytes, not fewer than level %s", v, l, n, l-1)
			}
			if v > MinVersion && n <= (v-1).DataBytes(l) {
				t.Errorf("%s-%s: %d data bytes, not more than version %s", v, l, n, v-1)
			}
		}
	}
}

func TestSizeClass(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		lo, hi := ClassVersions(v.SizeClass())
		if v < lo || v > hi {
			t.Errorf("version %d: class %d covers %d-%d", v, v.SizeClass(), lo, hi)
		}
	}
	assert.Equal(t, 21, Version(1).Size())
	assert.Equal(t, 177, Version(40).Size())
	assert.Equal(t, Class0, Version(9).SizeClass())
	assert.Equal(t, Class1, Version(10).SizeClass())
	assert.Equal(t, Class1, Version(26).SizeClass())
	assert.Equal(t, Class2, Version(27).SizeClass())
}

func TestFormatBits(t *testing.T) {
	want := [4][8]uint16{
		L: {0x77c4, 0x72f3, 0x7daa, 0x789d, 0x662f, 0x6318, 0x6c41, 0x6976},
		M: {0x5412, 0x5125, 0x5e7c, 0x5b4b, 0x45f9, 0x40ce, 0x4f97, 0x4aa0},
		Q: {0x355f, 0x3068, 0x3f31, 0x3a06, 0x24b4, 0x2183, 0x2eda, 0x2bed},
		H: {0x1689, 0x13be, 0x1ce7, 0x19d0, 0x0762, 0x0255, 0x0d0c, 0x083b},
	}
	for l := L; l <= H; l++ {
		for mask := 0; mask < 8; mask++ {
			if got := FormatBits(l, mask); got != want[l][mask] {
				t.Errorf("FormatBits(%s, %d) = %#04x, want %#04x", l, mask, got, want[l][mask])
			}
		}
	}
}

func TestVersionBits(t *testing.T) {
	want := []int{
		0x07c94, 0x085bc, 0x09a99, 0x0a4d3, 0x0bbf6, 0x0c762, 0x0d847,
		0x0e60d, 0x0f928, 0x10b78, 0x1145d, 0x12a17, 0x13532, 0x149a6,
		0x15683, 0x168c9, 0x177ec, 0x18ec4, 0x191e1, 0x1afab, 0x1b08e,
		0x1cc1a, 0x1d33f, 0x1ed75, 0x1f250, 0x209d5, 0x216f0, 0x228ba,
		0x2379f, 0x24b0b, 0x2542e, 0x26a64, 0x27541, 0x28c69,
	}
	for v := MinVersion; v < 7; v++ {
		assert.Zero(t, vtab[v].pattern, "version %d", v)
	}
	for i, w := range want {
		v := Version(i + 7)
		if got := vtab[v].pattern; got != w {
			t.Errorf("version %d: pattern %#05x, want %#05x", v, got, w)
		}
	}
}

func TestCharCapacity(t *testing.T) {
	tests := []struct {
		v    Version
		want [4][4]int // level, mode
	}{
		{1, [4][4]int{{41, 25, 17, 10}, {34, 20, 14, 8}, {27, 16, 11, 7}, {17, 10, 7, 4}}},
		{9, [4][4]int{{552, 335, 230, 141}, {432, 262, 180, 111}, {312, 189, 130, 80}, {235, 143, 98, 60}}},
		{10, [4][4]int{{652, 395, 271, 167}, {513, 311, 213, 131}, {364, 221, 151, 93}, {288, 174, 119, 74}}},
		{27, [4][4]int{{3517, 2132, 1465, 902}, {2701, 1637, 1125, 692}, {1933, 1172, 805, 496}, {1501, 910, 625, 385}}},
		{40, [4][4]int{{7089, 4296, 2953, 1817}, {5596, 3391, 2331, 1435}, {3993, 2420, 1663, 1024}, {3057, 1852, 1273, 784}}},
	}
	for _, tt := range tests {
		for l := L; l <= H; l++ {
			for m := Numeric; m <= Kanji; m++ {
				assert.Equal(t, tt.want[l][m], tt.v.CharCapacity(l, m), "%s-%s %s", tt.v, l, m)
			}
		}
	}
	assert.Zero(t, Version(0).CharCapacity(L, Byte))
	assert.Zero(t, Version(1).CharCapacity(L, Mode(9)))
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		v    Version
		l    Level
		want BlockLayout
	}{
		{1, M, BlockLayout{1, 0, 16, 10}},
		{5, Q, BlockLayout{2, 2, 15, 18}},
		{5, H, BlockLayout{2, 2, 11, 22}},
		{15, M, BlockLayout{5, 5, 41, 24}},
		{40, L, BlockLayout{19, 6, 118, 30}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.Blocks(tt.l), "%s-%s", tt.v, tt.l)
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			b := v.Blocks(l)
			n := b.Short + b.Long
			assert.Equal(t, v.DataBytes(l), b.Data*n+b.Long)
			assert.Equal(t, v.Bytes(), (b.Data+b.Check)*n+b.Long)
			assert.Less(t, b.Long, n)
		}
	}
}
