// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrenc/gf256"

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// Reed-Solomon encoders by number of check bytes per block.
var rsEnc [31]*gf256.RSEncoder

func init() {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, lev := range blocks[v] {
			if rsEnc[lev.check] == nil {
				rsEnc[lev.check] = gf256.NewRSEncoder(Field, lev.check)
			}
		}
	}
}

// A BlockLayout describes the error correction blocks of a QR code.
// Short blocks come first; long blocks hold one more data codeword.
type BlockLayout struct {
	Short, Long int // number of short and long blocks
	Data        int // data codewords in a short block
	Check       int // check codewords per block
}

// Blocks returns the error correction block layout for version v
// and level l.
func (v Version) Blocks(l Level) BlockLayout {
	lev := vtab[v].level[l]
	nd := v.DataBytes(l)
	db := nd / lev.nblock
	long := nd - db*lev.nblock
	return BlockLayout{
		Short: lev.nblock - long,
		Long:  long,
		Data:  db,
		Check: lev.check,
	}
}

// AddCheckBytes adds terminator, padding and check bytes to b for
// the given QR version and level.  The blocks are not interleaved.
func (b *Bits) AddCheckBytes(v Version, l Level) error {
	nb := v.DataBits(l)
	if b.nbit > nb {
		return CapacityError{v, l, b.nbit}
	}
	vt := &vtab[v]
	b.growTo(vt.bytes)
	b.PadTo(nb)
	if len(b.b)*8 != nb {
		return InternalError("padded data is not the data capacity")
	}

	dat := b.Bytes()
	bl := v.Blocks(l)
	rs := rsEnc[bl.Check]
	db := bl.Data
	for i := 0; i < bl.Short+bl.Long; i++ {
		if i == bl.Short {
			db++
		}
		if len(dat) < db {
			return InternalError("block structure exceeds data")
		}
		rs.ECC(dat[:db], b.Add(bl.Check))
		dat = dat[db:]
	}

	if len(dat) != 0 || len(b.Bytes()) != vt.bytes {
		return InternalError("block structure does not match codeword count")
	}
	return nil
}

// interleave writes the blocks in src to dst column by column: the
// first codeword of every block, then the second, and so on.  Blocks
// longer by one codeword follow the short ones.  dst and src must be
// of equal length.
func interleave(dst, src []byte, nblock int) {
	short := len(src) / nblock
	firstLong := nblock - len(src)%nblock
	k := 0
	for col := 0; col <= short; col++ {
		off := 0
		for i := 0; i < nblock; i++ {
			n := short
			if i >= firstLong {
				n++
			}
			if col < n {
				dst[k] = src[off+col]
				k++
			}
			off += n
		}
	}
}

// Permute returns a BitStream reading data and checksum bits in b
// with blocks interleaved for the given QR code version and level.
// The BitStream may use the same underlying buffer.
func (b *Bits) Permute(v Version, l Level) (BitStream, error) {
	vt := &vtab[v]
	src := b.Bytes()
	if len(src) != vt.bytes {
		return BitStream{}, InternalError("wrong codeword count")
	}
	dst := src
	if nblock := vt.level[l].nblock; nblock != 1 {
		if cap(src) < len(src)*2 {
			dst = make([]byte, vt.bytes)
		} else {
			dst = src[len(src) : len(src)*2]
		}
		nd := v.DataBytes(l)
		interleave(dst[:nd], src[:nd], nblock)
		interleave(dst[nd:], src[nd:], nblock)
	}
	return NewBitStream(dst), nil
}
