// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes, from narrowest to widest character set, except
// Kanji, which only covers double byte Shift JIS characters.
const (
	Numeric      Mode = iota // numeric mode, ASCII digits
	Alphanumeric             // alphanumeric mode, ASCII text
	Byte                     // byte mode, any data
	Kanji                    // kanji mode, Shift JIS text
)

// modeEncoder implements a QR segment encoding.
//
// Encode3, Encode2 and Encode1 return the encoding of the bytes and
// its length in bits.  The encoder calls a non-nil Encode{N}
// repeatedly as long as N source bytes are available, in descending
// order of N.  If all are nil, each byte is encoded as 8 bits.
type modeEncoder struct {
	Name      string // Name for error reporting
	Indicator byte   // 4 bit mode indicator

	// CountLength lists lengths of the character count field in the
	// three version size classes.
	CountLength [3]byte

	// EncodedLength returns the payload length in bits of n characters.
	EncodedLength func(n int) int

	// Valid reports whether the segment text is valid for the mode.
	Valid func(string) bool

	// Count returns the character count of valid text.
	// If nil, the length of the string in bytes is used.
	Count func(string) int

	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// IsDigit reports whether b is encodable in Numeric mode.
func IsDigit(b byte) bool { return b-'0' < 10 }

// IsAlphanumeric reports whether b is encodable in Alphanumeric mode.
func IsAlphanumeric(b byte) bool {
	return alphamask>>(uint32(b)-' ')&1 != 0
}

// IsNumeric reports whether s consists of ASCII digits only.
func IsNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return true
}

// IsAlphanumericString reports whether s is encodable in Alphanumeric
// mode.
func IsAlphanumericString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsAlphanumeric(s[i]) {
			return false
		}
	}
	return true
}

// IsKanjiCode reports whether the big endian Shift JIS double byte
// code c is encodable in Kanji mode.
func IsKanjiCode(c uint16) bool {
	lo := c & 0xff
	return (0x8140 <= c && c <= 0x9ffc || 0xe040 <= c && c <= 0xebbf) &&
		0x40 <= lo && lo <= 0xfc && lo != 0x7f
}

// isKanjiText reports whether s is a sequence of Kanji mode
// encodable Shift JIS double byte characters.
func isKanjiText(s string) bool {
	if len(s)&1 != 0 {
		return false
	}
	for i := 0; i < len(s); i += 2 {
		if !IsKanjiCode(uint16(s[i])<<8 | uint16(s[i+1])) {
			return false
		}
	}
	return true
}

// IsKanji reports whether the Unicode rune r is encodable in Kanji
// mode, i.e. whether it has a double byte Shift JIS representation in
// the Kanji mode ranges.
func IsKanji(r rune) bool {
	if r < 0x80 || r == utf8.RuneError || !utf8.ValidRune(r) {
		return false
	}
	var src [utf8.UTFMax]byte
	var dst [8]byte
	n := utf8.EncodeRune(src[:], r)
	nd, _, err := japanese.ShiftJIS.NewEncoder().Transform(dst[:], src[:n], true)
	return err == nil && nd == 2 && IsKanjiCode(uint16(dst[0])<<8|uint16(dst[1]))
}

// ShiftJIS converts the UTF-8 string s to Shift JIS and reports whether
// the result is encodable in Kanji mode.
func ShiftJIS(s string) (string, bool) {
	t, err := japanese.ShiftJIS.NewEncoder().String(s)
	if err != nil || !isKanjiText(t) {
		return "", false
	}
	return t, true
}

// Latin1 converts the UTF-8 string s to ISO 8859-1 and reports whether
// the conversion succeeded.
func Latin1(s string) (string, bool) {
	t, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return "", false
	}
	return t, true
}

// KanjiSegment returns a Kanji mode segment for the UTF-8 string s.
func KanjiSegment(s string) (Segment, error) {
	t, ok := ShiftJIS(s)
	if !ok {
		return Segment{}, SegmentError{s, Kanji}
	}
	return Segment{t, Kanji}, nil
}

// Latin1Segment returns a Byte mode segment for the UTF-8 string s
// encoded as ISO 8859-1.
func Latin1Segment(s string) (Segment, error) {
	t, ok := Latin1(s)
	if !ok {
		return Segment{}, SegmentError{s, Byte}
	}
	return Segment{t, Byte}, nil
}

var modes = [...]modeEncoder{
	Numeric: {
		Name:          "numeric",
		Indicator:     1,
		CountLength:   [3]byte{10, 12, 14},
		EncodedLength: func(n int) int { return (10*n + 2) / 3 },
		Valid:         IsNumeric,
		Encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
	},
	Alphanumeric: {
		Name:          "alphanumeric",
		Indicator:     2,
		CountLength:   [3]byte{9, 11, 13},
		EncodedLength: func(n int) int { return (11*n + 1) / 2 },
		Valid:         IsAlphanumericString,
		Encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		Name:          "byte",
		Indicator:     4,
		CountLength:   [3]byte{8, 16, 16},
		EncodedLength: func(n int) int { return n * 8 },
		Valid:         func(string) bool { return true },
	},
	Kanji: {
		Name:          "kanji",
		Indicator:     8,
		CountLength:   [3]byte{8, 10, 12},
		EncodedLength: func(n int) int { return n * 13 },
		Valid:         isKanjiText,
		Count:         func(s string) int { return len(s) >> 1 },
		Encode2: func(b [2]byte) (uint32, int) {
			c := uint32(b[0])<<8 | uint32(b[1])
			if c >= 0xe040 {
				c -= 0xc140
			} else {
				c -= 0x8140
			}
			return c>>8*0xc0 + c&0xff, 13
		},
	},
}

func getMode(mode Mode) *modeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// IsValid reports whether mode is one of the encoding modes.
func (mode Mode) IsValid() bool { return getMode(mode) != nil }

// Indicator returns the 4 bit mode indicator, or 0 if mode is invalid.
func (mode Mode) Indicator() byte {
	if m := getMode(mode); m != nil {
		return m.Indicator
	}
	return 0
}

// CountLength returns the length of the character count field for
// mode at the given size class.
func (mode Mode) CountLength(class int) int {
	if m := getMode(mode); m != nil {
		return int(m.CountLength[class])
	}
	return 0
}

// Length returns the length in bits of a segment of n characters
// encoded in mode at the given QR version size class, including the
// header.  Length returns 0 if and only if mode is invalid.
func (mode Mode) Length(n, class int) int {
	if m := getMode(mode); m != nil {
		return 4 + int(m.CountLength[class]) + m.EncodedLength(n)
	}
	return 0
}
