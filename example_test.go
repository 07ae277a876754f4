// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"fmt"

	"github.com/unixdj/qrenc"
)

func ExampleEncode() {
	c, err := qr.Encode("HELLO WORLD", qr.Q)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c.Version, c.Level, c.Size, c.Mask)
	// Output: 1 Q 21 0
}

func ExampleClassify() {
	for _, s := range []string{"0123", "HELLO WORLD", "Hello, world", ""} {
		m, err := qr.Classify(s, nil)
		fmt.Printf("%q %v %v\n", s, m, err)
	}
	// Output:
	// "0123" numeric <nil>
	// "HELLO WORLD" alphanumeric <nil>
	// "Hello, world" byte <nil>
	// "" numeric <nil>
}

func ExampleEncodeWith() {
	opt := &qr.Options{Kanji: true}
	c, err := qr.EncodeWith("点茗", qr.H, opt)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c.Version, c.Level)

	_, err = qr.EncodeWith("€", qr.L, &qr.Options{ByteEncoding: qr.Latin1})
	fmt.Println(err)
	// Output:
	// 1 H
	// qr: text not encodable in given modes: "€"
}
