// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/unixdj/qrenc/coding"

import (
	"sort"
	"strconv"
)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40:
// the larger the version, the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// Size returns the number of pixels on a side of a QR code of version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// QR version size classes.  The length of the character count field
// of a segment depends on the size class.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// ClassVersions returns the smallest and largest versions in the
// size class.
func ClassVersions(class int) (lo, hi Version) {
	return [3]Version{1, 10, 27}[class], [3]Version{9, 26, 40}[class]
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is a QR error correction level.
func (l Level) IsValid() bool { return L <= l && l <= H }

// formatBits returns the 2 bit level indicator of the format
// information: L=01, M=00, Q=11, H=10.
func (l Level) formatBits() uint32 { return uint32(l ^ 1) }

// level describes the error correction block structure for a version
// and level: the number of blocks and of check bytes per block.
type level struct {
	nblock int
	check  int
}

// Error correction block structure, from ISO/IEC 18004 table 9.
var blocks = [MaxVersion + 1][4]level{
	{},
	{{1, 7}, {1, 10}, {1, 13}, {1, 17}},      // 1
	{{1, 10}, {1, 16}, {1, 22}, {1, 28}},     // 2
	{{1, 15}, {1, 26}, {2, 18}, {2, 22}},     // 3
	{{1, 20}, {2, 18}, {2, 26}, {4, 16}},     // 4
	{{1, 26}, {2, 24}, {4, 18}, {4, 22}},     // 5
	{{2, 18}, {4, 16}, {4, 24}, {4, 28}},     // 6
	{{2, 20}, {4, 18}, {6, 18}, {5, 26}},     // 7
	{{2, 24}, {4, 22}, {6, 22}, {6, 26}},     // 8
	{{2, 30}, {5, 22}, {8, 20}, {8, 24}},     // 9
	{{4, 18}, {5, 26}, {8, 24}, {8, 28}},     // 10
	{{4, 20}, {5, 30}, {8, 28}, {11, 24}},    // 11
	{{4, 24}, {8, 22}, {10, 26}, {11, 28}},   // 12
	{{4, 26}, {9, 22}, {12, 24}, {16, 22}},   // 13
	{{4, 30}, {9, 24}, {16, 20}, {16, 24}},   // 14
	{{6, 22}, {10, 24}, {12, 30}, {18, 24}},  // 15
	{{6, 24}, {10, 28}, {17, 24}, {16, 30}},  // 16
	{{6, 28}, {11, 28}, {16, 28}, {19, 28}},  // 17
	{{6, 30}, {13, 26}, {18, 28}, {21, 28}},  // 18
	{{7, 28}, {14, 26}, {21, 26}, {25, 26}},  // 19
	{{8, 28}, {16, 26}, {20, 30}, {25, 28}},  // 20
	{{8, 28}, {17, 26}, {23, 28}, {25, 30}},  // 21
	{{9, 28}, {17, 28}, {23, 30}, {34, 24}},  // 22
	{{9, 30}, {18, 28}, {25, 30}, {30, 30}},  // 23
	{{10, 30}, {20, 28}, {27, 30}, {32, 30}}, // 24
	{{12, 26}, {21, 28}, {29, 30}, {35, 30}}, // 25
	{{12, 28}, {23, 28}, {34, 28}, {37, 30}}, // 26
	{{12, 30}, {25, 28}, {34, 30}, {40, 30}}, // 27
	{{13, 30}, {26, 28}, {35, 30}, {42, 30}}, // 28
	{{14, 30}, {28, 28}, {38, 30}, {45, 30}}, // 29
	{{15, 30}, {29, 28}, {40, 30}, {48, 30}}, // 30
	{{16, 30}, {31, 28}, {43, 30}, {51, 30}}, // 31
	{{17, 30}, {33, 28}, {45, 30}, {54, 30}}, // 32
	{{18, 30}, {35, 28}, {48, 30}, {57, 30}}, // 33
	{{19, 30}, {37, 28}, {51, 30}, {60, 30}}, // 34
	{{19, 30}, {38, 28}, {53, 30}, {63, 30}}, // 35
	{{20, 30}, {40, 28}, {56, 30}, {66, 30}}, // 36
	{{21, 30}, {43, 28}, {59, 30}, {70, 30}}, // 37
	{{22, 30}, {45, 28}, {62, 30}, {74, 30}}, // 38
	{{24, 30}, {47, 28}, {65, 30}, {77, 30}}, // 39
	{{25, 30}, {49, 28}, {68, 30}, {81, 30}}, // 40
}

// A version describes metadata associated with a version.
type version struct {
	bytes     int   // total codewords
	remainder int   // remainder bits after the last codeword
	align     []int // alignment pattern centre coordinates
	pattern   int   // 18 bit version information, 0 below 7
	level     [4]level
}

// Version table, computed at startup from blocks and the symbol
// geometry.  Read only afterwards.
var vtab [MaxVersion + 1]version

func init() {
	for v := MinVersion; v <= MaxVersion; v++ {
		raw := rawModules(v)
		vtab[v] = version{
			bytes:     raw / 8,
			remainder: raw % 8,
			align:     alignPositions(v),
			pattern:   versionBits(v),
			level:     blocks[v],
		}
	}
}

// rawModules returns the number of modules available for data and
// check bits in a QR code of version v, after all function patterns
// are excluded.  This includes remainder bits.
func rawModules(v Version) int {
	n := int(v)
	r := (16*n+128)*n + 64
	if n >= 2 {
		na := n/7 + 2 // alignment patterns per row
		r -= (25*na-10)*na - 55
		if n >= 7 {
			r -= 36 // version information
		}
	}
	return r
}

// alignPositions returns the row and column coordinates of alignment
// pattern centres for version v, in ascending order.  Version 1 has none.
func alignPositions(v Version) []int {
	if v == 1 {
		return nil
	}
	n := int(v)/7 + 2
	step := 26
	if v != 32 {
		step = (int(v)*4 + n*2 + 1) / (n*2 - 2) * 2
	}
	pos := make([]int, n)
	pos[0] = 6
	for i, p := n-1, v.Size()-7; i > 0; i, p = i-1, p-step {
		pos[i] = p
	}
	return pos
}

// bch returns data with its BCH check bits appended, computed as the
// remainder of data·x^(deg poly) divided by poly.
func bch(data, poly uint32) uint32 {
	deg := 0
	for p := poly; p > 1; p >>= 1 {
		deg++
	}
	rem := data << deg
	for i := 31; i >= deg; i-- {
		if rem>>i&1 != 0 {
			rem ^= poly << (i - deg)
		}
	}
	return data<<deg | rem
}

// versionBits returns the 18 bit version information for v,
// or 0 for versions without it.
func versionBits(v Version) int {
	if v < 7 {
		return 0
	}
	return int(bch(uint32(v), 0x1f25))
}

// FormatBits returns the 15 bit format information for level l and
// mask pattern mask, BCH coded and masked with 0x5412.
func FormatBits(l Level, mask int) uint16 {
	return uint16(bch(l.formatBits()<<3|uint32(mask&7), 0x537) ^ 0x5412)
}

// Bytes returns the total number of codewords, data and check,
// in a QR code of version v.
func (v Version) Bytes() int { return vtab[v].bytes }

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// Capacity returns the number of data codewords of a QR code with the
// given version and level.
func Capacity(v Version, l Level) (int, error) {
	if !v.IsValid() {
		return 0, ErrVersion
	}
	if !l.IsValid() {
		return 0, ErrLevel
	}
	return v.DataBytes(l), nil
}

// CharCapacity returns the maximum number of characters of a single
// segment in mode that fits in a QR code with the given version and
// level.  Characters are digits in Numeric mode, bytes in Byte mode and
// double byte characters in Kanji mode.  CharCapacity returns 0 if
// any argument is invalid.
func (v Version) CharCapacity(l Level, mode Mode) int {
	m := getMode(mode)
	if m == nil || !v.IsValid() || !l.IsValid() {
		return 0
	}
	class := v.SizeClass()
	avail := v.DataBits(l) - 4 - int(m.CountLength[class])
	if avail < 0 {
		return 0
	}
	// EncodedLength is monotonic; find the largest n that fits.
	n := sort.Search(avail+1, func(n int) bool {
		return m.EncodedLength(n) > avail
	}) - 1
	limit := 1<<m.CountLength[class] - 1
	return min(n, limit)
}
