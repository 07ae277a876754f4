// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Segment describes a QR code segment.  Text holds the data in the
// representation encoded by Mode: ASCII for Numeric and Alphanumeric,
// bytes as is for Byte and big endian Shift JIS pairs for Kanji.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	m := getMode(seg.Mode)
	return m != nil && m.Valid(seg.Text)
}

// Count returns the value of the character count field for seg.
func (seg Segment) Count() int {
	if m := getMode(seg.Mode); m != nil && m.Count != nil {
		return m.Count(seg.Text)
	}
	return len(seg.Text)
}

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class, including the header.  EncodedLength
// returns 0 if and only if mode is invalid.  The segment is not
// validated.
func (seg Segment) EncodedLength(class int) int {
	return seg.Mode.Length(seg.Count(), class)
}

// Fits reports whether the character count of seg fits the count
// field at the given size class.
func (seg Segment) Fits(class int) bool {
	m := getMode(seg.Mode)
	return m != nil && seg.Count() < 1<<m.CountLength[class]
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	m := getMode(seg.Mode)
	if m == nil || !m.Valid(seg.Text) {
		return SegmentError(seg)
	}
	if !seg.Fits(class) {
		return ErrLongText
	}
	// write header
	b.Write(uint32(m.Indicator), 4)
	b.Write(uint32(seg.Count()), int(m.CountLength[class]))
	// encode the string
	s := seg.Text
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 == nil && enc2 == nil && enc1 == nil {
		for i := 0; i < len(s); i++ {
			b.Write(uint32(s[i]), 8)
		}
		return nil
	}
	if enc3 != nil {
		for len(s) >= 3 {
			b.Write(enc3([3]byte{s[0], s[1], s[2]}))
			s = s[3:]
		}
	}
	if enc2 != nil {
		for len(s) >= 2 {
			b.Write(enc2([2]byte{s[0], s[1]}))
			s = s[2:]
		}
	}
	if enc1 != nil {
		for len(s) >= 1 {
			b.Write(enc1(s[0]))
			s = s[1:]
		}
	}
	if s != "" {
		return InternalError(m.Name + " mode left unencoded data")
	}
	return nil
}
