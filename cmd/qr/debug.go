// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/unixdj/qrenc"
)

// debugTextFormatter formats entries with next, then draws every
// *qr.Code field below the entry, one text line per module row.
type debugTextFormatter struct {
	next log.Formatter
}

func (f *debugTextFormatter) Format(entry *log.Entry) ([]byte, error) {
	var names []string
	codes := make(map[string]*qr.Code)
	for name, value := range entry.Data {
		if c, ok := value.(*qr.Code); ok && c != nil {
			names = append(names, name)
			codes[name] = c
		}
	}
	if len(codes) == 0 {
		return f.next.Format(entry)
	}
	e := entry.Dup()
	e.Level, e.Message, e.Caller = entry.Level, entry.Message, entry.Caller
	for _, name := range names {
		delete(e.Data, name)
	}
	res, err := f.next.Format(e)
	if err != nil {
		return res, err
	}
	sort.Strings(names)
	for _, name := range names {
		res = appendGrid(res, name, codes[name])
	}
	return res, nil
}

// appendGrid appends a drawing of c to b, '#' for black modules and
// '.' for white ones.
func appendGrid(b []byte, name string, c *qr.Code) []byte {
	b = append(b, fmt.Sprintf("  %s (version %v, level %v, mask %d):\n",
		name, c.Version, c.Level, c.Mask)...)
	for y := 0; y < c.Size; y++ {
		b = append(b, "    "...)
		for x := 0; x < c.Size; x++ {
			p := byte('.')
			if c.Black(x, y) {
				p = '#'
			}
			b = append(b, p)
		}
		b = append(b, '\n')
	}
	return b
}
