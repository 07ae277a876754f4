// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	scale, bord := c.Scale, c.Border
	length := scale * (c.Size + bord*2)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	var white byte
	if c.Reverse {
		white = 0xff
	}
	for y := -bord; y < c.Size+bord; y++ {
		pbmRow(row, c, y, white)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow encodes row y of the code, including the quiet zone, in PBM
// format.  Bits past the image width are zero.
func pbmRow(row []byte, c *Code, y int, white byte) {
	for i := range row {
		row[i] = white
	}
	scale, bord := c.Scale, c.Border
	if 0 <= y && y < c.Size {
		for x := 0; x < c.Size; x++ {
			if !c.Black(x, y) {
				continue
			}
			for j, p := 0, (x+bord)*scale; j < scale; j, p = j+1, p+1 {
				row[p>>3] ^= 0x80 >> (p & 7)
			}
		}
	}
	if n := scale * (c.Size + bord*2) & 7; n != 0 {
		row[len(row)-1] &^= 0xff >> n
	}
}
