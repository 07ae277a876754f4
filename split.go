// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"fmt"
	"unicode/utf8"

	"github.com/unixdj/qrenc/coding"
)

const nmodes = int(coding.Kanji) + 1

// Bit fields of modes valid for a character.
const (
	byteModes  = 1 << coding.Byte
	kanjiModes = 1<<coding.Kanji | byteModes
	alphaModes = 1<<coding.Alphanumeric | byteModes
	numModes   = 1<<coding.Numeric | alphaModes
)

type (
	// chain describes a segment encoded in a certain mode, linked
	// to the optimal encoding of the rest of the text.
	chain struct {
		next   *chain      // link to next segment in the chain
		start  int         // first span
		end    int         // end span, exclusive
		count  int         // character count
		weight int         // encoded size of all segments in the chain
		mode   coding.Mode // encoding mode
		ok     bool        // the chain is valid
	}

	// span describes a run of characters encodable in the same modes.
	span struct {
		start, end int           // byte offsets in text
		runes      int           // number of characters
		modes      uint8         // bit field of valid encoding modes
		seg        [nmodes]chain // optimal chains starting here
	}

	// spans describes text split into spans.
	spans struct {
		text   string
		latin1 bool
		sp     []span
	}
)

// newSpans splits text into spans of characters encodable in the same
// modes.
func newSpans(text string, opt *Options) (*spans, error) {
	s := &spans{text: text, latin1: opt.ByteEncoding == Latin1}
	var cur *span
	for i := 0; i < len(text); {
		r, n := rune(text[i]), 1
		if r >= utf8.RuneSelf {
			r, n = utf8.DecodeRuneInString(text[i:])
		}
		m := uint8(byteModes)
		switch {
		case r < utf8.RuneSelf && coding.IsDigit(byte(r)):
			m = numModes
		case r < utf8.RuneSelf && coding.IsAlphanumeric(byte(r)):
			m = alphaModes
		case opt.Kanji && coding.IsKanji(r):
			m = kanjiModes
		}
		if s.latin1 && r > 0xff {
			m &^= byteModes
		}
		if m == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotEncodable, text)
		}
		if cur == nil || cur.modes != m {
			s.sp = append(s.sp, span{start: i, modes: m})
			cur = &s.sp[len(s.sp)-1]
		}
		cur.end = i + n
		cur.runes++
		i += n
	}
	return s, nil
}

// count returns the character count of span i in mode.
func (s *spans) count(i int, mode coding.Mode) int {
	sp := &s.sp[i]
	switch {
	case mode == coding.Kanji, mode == coding.Byte && s.latin1:
		return sp.runes
	}
	return sp.end - sp.start
}

/*
best computes the optimal chains for the given QR version size class
and returns the one starting at the first span, or nil if no chain fits
the character count fields.

For the last span, for each valid mode j, the chain is the span
encoded in mode j.

Walking backwards through the rest of the spans, for each span i and
valid mode j, for each valid chain starting at span i+1 in mode k:
  - link a segment encoding span i in mode j to the chain, or, if k==j,
    extend the chain's first segment to cover span i;
  - keep the candidate with the smallest weight as sp[i].seg[j].
*/
func (s *spans) best(class int) *chain {
	sp := s.sp
	if len(sp) == 0 {
		return nil
	}
	fits := func(mode coding.Mode, n int) bool {
		return n < 1<<mode.CountLength(class)
	}
	for i := len(sp) - 1; i >= 0; i-- {
		for j := coding.Numeric; j <= coding.Kanji; j++ {
			seg := &sp[i].seg[j]
			*seg = chain{}
			if sp[i].modes>>j&1 == 0 {
				continue
			}
			n := s.count(i, j)
			if i == len(sp)-1 {
				if fits(j, n) {
					*seg = chain{
						start:  i,
						end:    i + 1,
						count:  n,
						weight: j.Length(n, class),
						mode:   j,
						ok:     true,
					}
				}
				continue
			}
			for k := range sp[i+1].seg {
				next := &sp[i+1].seg[k]
				if !next.ok {
					continue
				}
				c := chain{
					next:  next,
					start: i,
					end:   i + 1,
					count: n,
					mode:  j,
					ok:    true,
				}
				if next.mode == j {
					c.count += next.count
					c.end = next.end
					c.next = next.next
				}
				if !fits(j, c.count) {
					continue
				}
				c.weight = j.Length(c.count, class)
				if c.next != nil {
					c.weight += c.next.weight
				}
				if !seg.ok || c.weight < seg.weight {
					*seg = c
				}
			}
		}
	}

	// Choose the first chain with the smallest weight.
	var best *chain
	for j := range sp[0].seg {
		if c := &sp[0].seg[j]; c.ok && (best == nil || c.weight < best.weight) {
			best = c
		}
	}
	return best
}

// single returns the shortest chain encoding the whole text as one
// segment, or nil if no mode encodes all spans.  The length of a
// merged segment is not exactly the sum of its parts, so best may miss
// it by a few bits.
func (s *spans) single(class int) *chain {
	common := ^uint8(0)
	for i := range s.sp {
		common &= s.sp[i].modes
	}
	var best *chain
	for j := coding.Numeric; j <= coding.Kanji; j++ {
		if common>>j&1 == 0 {
			continue
		}
		n := 0
		for i := range s.sp {
			n += s.count(i, j)
		}
		if n >= 1<<j.CountLength(class) {
			continue
		}
		if w := j.Length(n, class); best == nil || w < best.weight {
			best = &chain{end: len(s.sp), count: n, weight: w, mode: j, ok: true}
		}
	}
	return best
}

// split returns the optimal segments for the size class and their
// encoded length, or -1 if the text cannot be split for the class.
func (s *spans) split(class int) ([]coding.Segment, int, error) {
	if len(s.sp) == 0 {
		seg := coding.Segment{Mode: coding.Numeric}
		return []coding.Segment{seg}, seg.EncodedLength(class), nil
	}
	c := s.best(class)
	if single := s.single(class); single != nil && (c == nil || single.weight <= c.weight) {
		c = single
	}
	if c == nil {
		return nil, -1, nil
	}
	weight := c.weight
	var segs []coding.Segment
	for ; c != nil; c = c.next {
		text := s.text[s.sp[c.start].start:s.sp[c.end-1].end]
		ok := true
		switch {
		case c.mode == coding.Kanji:
			text, ok = coding.ShiftJIS(text)
		case c.mode == coding.Byte && s.latin1:
			text, ok = coding.Latin1(text)
		}
		if !ok {
			return nil, 0, coding.InternalError("split produced an unencodable " + c.mode.String() + " segment")
		}
		segs = append(segs, coding.Segment{Text: text, Mode: c.mode})
	}
	return segs, weight, nil
}
