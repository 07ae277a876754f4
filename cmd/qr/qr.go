// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"path"
	"strings"
	"syscall"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	log "github.com/sirupsen/logrus"

	"github.com/unixdj/qrenc"
	"github.com/unixdj/qrenc/coding"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	fext    string          // filename suffix
	lev     qr.Level        // QR correction level
	format  int             // output file format
	cx      int             // randr source X coordinate index in inc
	inc     [2]int          // randr source X,Y coordinate increments
	bg, fg  colour          // colours
	opt     qr.Options      // encoder options
	upper   bool            // uppercase
	each    bool            // one code per argument
	debug   bool            // debug logging
}{
	inc: [2]int{1, 1},
	bg:  colour{colorful.Color{R: 1, G: 1, B: 1}, "white"},
	fg:  colour{colorful.Color{}, "black"},
}

const usageText = `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults: UTF-8 byte mode, kanji mode disabled,
single mode, smallest version.  Set QRDEBUG in the environment to
enable debug logging.

`

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprintf(w, "QR code generator\nUsage: %s %s [string ...]\n%s",
		cl.Program(), cl.UsageLine(), usageText)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

// colour is a getopt.Value holding a colour given in hex.
type colour struct {
	c    colorful.Color
	name string
}

func (c *colour) String() string { return c.name }

func (c *colour) Set(s string, _ getopt.Option) error {
	switch strings.ToLower(s) {
	case "black":
		*c = colour{colorful.Color{}, "black"}
		return nil
	case "white":
		*c = colour{colorful.Color{R: 1, G: 1, B: 1}, "white"}
		return nil
	}
	h := s
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	cc, err := colorful.Hex(h)
	if err != nil {
		return fmt.Errorf("%q: bad colour", s)
	}
	*c = colour{cc, cc.Hex()[1:]}
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	func(c *qr.Code, w io.Writer) error { return png.Encode(w, c.Image()) },
	(*qr.Code).EncodePBM,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	(*qr.Code).EncodeASCII,
}

var modes = []string{"auto", "numeric", "alphanumeric", "byte", "kanji"}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RRGGBB")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3 or 6 hex digits, "black" or "white"; `+
		`only for types png[i]`, "RRGGBB")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.opt.Kanji, 'k', "enable kanji mode")
	getopt.Flag(&g.opt.Optimize, 'O', "split data into segments "+
		"of different modes for the shortest encoding")
	latin1 := getopt.Bool('1', "convert byte mode data to Latin-1")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.each, 'a', `encode each argument as a separate `+
		`code; with -o, "-01", "-02" etc. is appended `+
		`to the filename before suffix`)
	getopt.Flag(&g.debug, 'd', "log encoder decisions")
	getopt.Flag(&g.border, 'm', `quiet zone pixels [4]`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version; 0 selects the smallest", "ver")
	mode := getopt.Enum('M', modes, "auto",
		"encoding mode of the entire data", strings.Join(modes, "|"))
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 8,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.opt.Version = coding.Version(*ver)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	for i, m := range modes {
		if *mode == m {
			g.opt.Mode = qr.Mode(i)
		}
	}
	if *latin1 {
		g.opt.ByteEncoding = qr.Latin1
	}
	if !getopt.IsSet('m') {
		g.border = -1
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if getopt.IsSet('B') || getopt.IsSet('F') {
		g.palette = &[2]color.Color{g.bg.c, g.fg.c}
	}
}

func main() {
	parseFlags()
	if g.debug || os.Getenv("QRDEBUG") != "" {
		log.SetLevel(log.DebugLevel)
		log.SetFormatter(&debugTextFormatter{&log.TextFormatter{}})
		qr.SetLogger(log.StandardLogger())
	}

	args := getopt.Args()
	if g.each && len(args) > 1 {
		if g.upper {
			for i := range args {
				args[i] = strings.ToUpper(args[i])
			}
		}
		g.fext = path.Ext(g.fn)
		g.fn = g.fn[:len(g.fn)-len(g.fext)]
		cc, err := qr.EncodeAll(context.Background(), args, g.lev, &g.opt)
		if err != nil {
			log.Fatal(err)
		}
		for i := range cc {
			write(i, cc[i])
		}
		return
	}

	var s string
	if len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatal(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}
	c, err := qr.EncodeWith(s, g.lev, &g.opt)
	if err != nil {
		log.Fatal(err)
	}
	write(-1, c)
}

func write(i int, c *qr.Code) {
	fn := g.fn
	open := fn != "" || g.fext != ""
	var w = os.Stdout
	if open {
		if i >= 0 {
			fn = fmt.Sprintf("%s-%02d%s", fn, i+1, g.fext)
		}
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatal(err)
		}
	}
	c = randr(c)
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}
	log.WithFields(log.Fields{
		"file": fn,
		"code": c,
	}).Debug("writing code")
	err := encoders[g.format](c, w)
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatal(err)
	}
}

// randr rotates and reflects c.
func randr(c *qr.Code) *qr.Code {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	siz := c.Size
	b := make([]byte, 0, siz*c.Stride)
	var coord [2]int
	coord[cx^1] = (siz - 1) & inc[1]
	for y := 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		var bb byte
		for x := 0; x < siz; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if x&7 == 7 {
				b = append(b, bb)
			}
			coord[cx] += inc[0]
		}
		if siz&7 != 0 {
			b = append(b, bb<<(8-siz&7))
		}
		coord[cx^1] += inc[1]
	}
	c.Bitmap = b
	return c
}
