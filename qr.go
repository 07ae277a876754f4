// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode chooses the encoding mode and the smallest QR version for the
text and error correction level.  EncodeWith accepts Options to force
a version or a mode, to select the byte mode character encoding, to
enable kanji mode and to split text into segments of different modes.
EncodeAll encodes many texts concurrently.

The resulting Code is a square grid of modules with a quiet zone,
renderable as an image, PBM or text.
*/
package qr // import "github.com/unixdj/qrenc"

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/unixdj/qrenc/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// A Mode is a QR segment encoding mode.  The zero value, Auto, lets
// the encoder choose.
type Mode int

const (
	Auto         Mode = iota // choose the narrowest mode
	Numeric                  // digits
	Alphanumeric             // digits, upper case letters, " $%*+-./:"
	Byte                     // bytes, see ByteEncoding
	Kanji                    // Shift JIS double byte characters
)

func (m Mode) String() string {
	if m == Auto {
		return "auto"
	}
	return m.coding().String()
}

func (m Mode) coding() coding.Mode { return coding.Mode(m - 1) }

// A ByteEncoding selects how byte mode segments represent text.
type ByteEncoding int

const (
	// UTF8 encodes the text bytes as is.  Any string is encodable.
	UTF8 ByteEncoding = iota

	// Latin1 converts UTF-8 text to ISO 8859-1.  Text containing
	// characters above U+00FF is not encodable in byte mode.
	Latin1
)

func (e ByteEncoding) String() string {
	if e == Latin1 {
		return "latin1"
	}
	return "utf8"
}

// Options configure EncodeWith.  The zero value selects the smallest
// version and the narrowest mode, UTF-8 byte mode and no kanji mode.
type Options struct {
	// Version forces the QR version.  0 selects the smallest
	// version that fits the data.
	Version coding.Version

	// Mode forces the encoding mode of the whole text.
	Mode Mode

	// ByteEncoding selects the byte mode character encoding.
	ByteEncoding ByteEncoding

	// Kanji enables kanji mode.
	Kanji bool

	// Optimize splits the text into segments of different modes
	// with the shortest total encoding.  It is ignored if Mode is
	// set.
	Optimize bool
}

var defaultOptions Options

// Errors.  Errors returned by the package match them with errors.Is.
var (
	ErrLevel        = coding.ErrLevel        // level is not L, M, Q or H
	ErrVersion      = coding.ErrVersion      // version outside 1 to 40
	ErrLongText     = coding.ErrLongText     // data does not fit
	ErrNotEncodable = coding.ErrNotEncodable // no mode can encode the text
)

// IsInternal reports whether err signals a bug in the encoder rather
// than a problem with the input.
func IsInternal(err error) bool { return coding.IsInternal(err) }

var logger atomic.Pointer[logrus.Logger]

func init() {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	logger.Store(l)
}

// SetLogger sets the logger for tracing encoder decisions at debug
// level.  The package is silent by default.  A nil l restores the
// default.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
		l.SetLevel(logrus.PanicLevel)
	}
	logger.Store(l)
}

func log() *logrus.Logger { return logger.Load() }

// Classify returns the narrowest mode encoding all of text:
// Numeric, Alphanumeric, Kanji if enabled in opt, or Byte.  Empty text
// is Numeric.  Classify fails with ErrNotEncodable if byte mode with
// the byte encoding in opt cannot represent text.  opt may be nil.
func Classify(text string, opt *Options) (Mode, error) {
	if opt == nil {
		opt = &defaultOptions
	}
	num, alnum, kanji, latin1 := true, true, opt.Kanji, true
	for i := 0; i < len(text); {
		if c := text[i]; c < utf8.RuneSelf {
			num = num && coding.IsDigit(c)
			alnum = alnum && coding.IsAlphanumeric(c)
			kanji = false
			i++
			continue
		}
		num, alnum = false, false
		r, n := utf8.DecodeRuneInString(text[i:])
		kanji = kanji && coding.IsKanji(r)
		latin1 = latin1 && r <= 0xff
		i += n
	}
	switch {
	case num:
		return Numeric, nil
	case alnum:
		return Alphanumeric, nil
	case kanji:
		return Kanji, nil
	case opt.ByteEncoding == UTF8 || latin1:
		return Byte, nil
	}
	return Auto, fmt.Errorf("%w: %q", ErrNotEncodable, text)
}

// segment returns text as a single segment in mode.
func segment(text string, mode Mode, opt *Options) (coding.Segment, error) {
	switch mode {
	case Byte:
		if opt.ByteEncoding == Latin1 {
			return coding.Latin1Segment(text)
		}
	case Kanji:
		return coding.KanjiSegment(text)
	}
	seg := coding.Segment{Text: text, Mode: mode.coding()}
	if !seg.IsValid() {
		return seg, coding.SegmentError(seg)
	}
	return seg, nil
}

// A splitFunc returns the segments encoding the text at the given
// version size class and their length in bits.
type splitFunc func(class int) ([]coding.Segment, int, error)

// fixedSplit returns a splitFunc for segments that do not depend on
// the size class.
func fixedSplit(segs []coding.Segment) splitFunc {
	return func(class int) ([]coding.Segment, int, error) {
		return segs, segmentBits(segs, class), nil
	}
}

// segmentBits returns the encoded length of segs at the size class,
// or -1 if a character count does not fit its field.
func segmentBits(segs []coding.Segment, class int) int {
	n := 0
	for _, seg := range segs {
		if !seg.Fits(class) {
			return -1
		}
		n += seg.EncodedLength(class)
	}
	return n
}

// SelectVersion returns the smallest version holding segs at the
// given level.  Lengths are computed exactly for each size class.
func SelectVersion(segs []coding.Segment, level Level) (coding.Version, error) {
	l := coding.Level(level)
	if !l.IsValid() {
		return 0, ErrLevel
	}
	v, _, err := selectVersion(fixedSplit(segs), l)
	return v, err
}

func selectVersion(split splitFunc, l coding.Level) (coding.Version, []coding.Segment, error) {
	bits := 0
	for class := coding.Class0; class <= coding.Class2; class++ {
		segs, n, err := split(class)
		if err != nil {
			return 0, nil, err
		}
		if n < 0 {
			continue
		}
		bits = n
		lo, hi := coding.ClassVersions(class)
		if hi.DataBits(l) < n {
			continue
		}
		// Find version in the size class.
		for lo < hi {
			if mid := (lo + hi) / 2; mid.DataBits(l) < n {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo, segs, nil
	}
	return 0, nil, coding.CapacityError{Version: coding.MaxVersion, Level: l, Bits: bits}
}

// Encode returns an encoding of text at the given error correction
// level in the narrowest mode and smallest version.
func Encode(text string, level Level) (*Code, error) {
	return EncodeWith(text, level, nil)
}

// EncodeWith returns an encoding of text at the given error correction
// level with options.  opt may be nil.
func EncodeWith(text string, level Level, opt *Options) (*Code, error) {
	if opt == nil {
		opt = &defaultOptions
	}
	l := coding.Level(level)
	if !l.IsValid() {
		return nil, ErrLevel
	}
	if opt.Version != 0 && !opt.Version.IsValid() {
		return nil, ErrVersion
	}

	var split splitFunc
	mode := opt.Mode
	if mode == Auto && opt.Optimize {
		sp, err := newSpans(text, opt)
		if err != nil {
			return nil, err
		}
		split = sp.split
	} else {
		if mode == Auto {
			var err error
			if mode, err = Classify(text, opt); err != nil {
				return nil, err
			}
		} else if mode < Numeric || mode > Kanji {
			return nil, fmt.Errorf("%w: invalid mode %d", ErrNotEncodable, mode)
		}
		seg, err := segment(text, mode, opt)
		if err != nil {
			return nil, err
		}
		split = fixedSplit([]coding.Segment{seg})
	}

	var (
		v    = opt.Version
		segs []coding.Segment
		err  error
	)
	if v == 0 {
		v, segs, err = selectVersion(split, l)
	} else {
		var n int
		segs, n, err = split(v.SizeClass())
		if err == nil && (n < 0 || n > v.DataBits(l)) {
			err = coding.CapacityError{Version: v, Level: l, Bits: n}
		}
	}
	if err != nil {
		return nil, err
	}

	cc, err := coding.Encode(v, l, segs...)
	if err != nil {
		return nil, err
	}
	if lg := log(); lg.IsLevelEnabled(logrus.DebugLevel) {
		modes := make([]string, len(segs))
		for i, s := range segs {
			modes[i] = s.Mode.String()
		}
		lg.WithFields(logrus.Fields{
			"version":  v,
			"level":    level,
			"segments": modes,
			"mask":     cc.Mask,
		}).Debug("qr: encoded")
	}
	return newCode(cc, v, level), nil
}

// EncodeAll encodes texts concurrently and returns the codes in the
// same order.  It returns the first error encountered, or the context
// error if ctx is cancelled before all texts are encoded.
func EncodeAll(ctx context.Context, texts []string, level Level, opt *Options) ([]*Code, error) {
	codes := make([]*Code, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := EncodeWith(text, level, opt)
			if err != nil {
				return fmt.Errorf("qr: text %d: %w", i, err)
			}
			codes[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}
