// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Encoder encodes a QR code.
type Encoder struct {
	p *Plan
	b *Bits
}

func newEncoder(p *Plan) *Encoder {
	return &Encoder{p: p, b: NewBits(p.Version, p.Level)}
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := NewPlan(version, level)
	if err != nil {
		return nil, err
	}
	return newEncoder(p), nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	if e.b.Bits() > e.p.DataBits {
		return CapacityError{e.p.Version, e.p.Level, e.b.Bits()}
	}
	return nil
}

// Bits returns the number of bits written to e.
func (e *Encoder) Bits() int { return e.b.Bits() }

// xor xors a and b into dst.  a and b may not be shorter than dst.
// dst and a or b should not overlap unless they are the same slice.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func (e *Encoder) Reset() { e.b.Reset() }

// data returns the unmasked bitmap of data and checksum bits
// written to e.  The Encoder must be reset before reuse.
func (e *Encoder) data() ([]byte, error) {
	if err := e.b.AddCheckBytes(e.p.Version, e.p.Level); err != nil {
		return nil, err
	}
	bits, err := e.b.Permute(e.p.Version, e.p.Level)
	if err != nil {
		return nil, err
	}
	data := make([]byte, e.p.Size*e.p.Stride)
	e.p.Serialise(bits, data)
	return data, nil
}

// Code returns a QR code containing data written to e.  The mask
// with the smallest penalty is applied; ties go to the lower mask.
// The Encoder must be reset before reuse.
func (e *Encoder) Code() (*Code, error) {
	data, err := e.data()
	if err != nil {
		return nil, err
	}

	// Apply masks to the bitmap to construct the actual codes.
	// Choose the code with the smallest penalty.
	c := &Code{Size: e.p.Size, Stride: e.p.Stride, Bitmap: make([]byte, len(data))}
	best := make([]byte, len(data)) // best bitmap so far
	pen, mask := -1, 0
	for m, v := range e.p.Pattern {
		// set bitmap to data bits xor plan bits
		xor(c.Bitmap, data, v)
		if p := c.Penalty(); pen < 0 || p < pen {
			best, pen, c.Bitmap = c.Bitmap, p, best
			mask = m
		}
	}
	c.Bitmap, c.Mask = best, mask
	return c, nil
}

// CodeMask is like Code but applies the given mask.
func (e *Encoder) CodeMask(mask int) (*Code, error) {
	if mask < 0 || mask >= len(e.p.Pattern) {
		return nil, ErrMask
	}
	data, err := e.data()
	if err != nil {
		return nil, err
	}
	xor(data, data, e.p.Pattern[mask])
	return &Code{Size: e.p.Size, Stride: e.p.Stride, Bitmap: data, Mask: mask}, nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}
