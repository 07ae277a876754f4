// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
)

var (
	ErrLevel        = errors.New("qr: invalid level")
	ErrVersion      = errors.New("qr: invalid version")
	ErrLongText     = errors.New("qr: text too long")
	ErrNotEncodable = errors.New("qr: text not encodable in given modes")
	ErrMask         = errors.New("qr: invalid mask")
)

// SegmentError represents a Segment whose text is not valid for its
// mode.  It matches ErrNotEncodable.
type SegmentError Segment

func (e SegmentError) Error() string {
	if m := getMode(e.Mode); m != nil {
		return fmt.Sprintf("qr: non-%s string %#q", m.Name, e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

func (e SegmentError) Unwrap() error { return ErrNotEncodable }

// CapacityError reports data that does not fit a version and level.
// It matches ErrLongText.
type CapacityError struct {
	Version Version
	Level   Level
	Bits    int // encoded data length
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("qr: cannot encode %d bits into %d-bit code %s-%s",
		e.Bits, e.Version.DataBits(e.Level), e.Version, e.Level)
}

func (e CapacityError) Unwrap() error { return ErrLongText }

// InternalError reports a broken encoder invariant, such as a codeword
// stream whose length does not match the block structure.  It is never
// caused by input data.
type InternalError string

func (e InternalError) Error() string { return "qr: internal error: " + string(e) }

// IsInternal reports whether err is or wraps an InternalError.
func IsInternal(err error) bool {
	var ie InternalError
	return errors.As(err, &ie)
}
