// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import (
	"fmt"
	"strings"
)

const (
	// pointerMask marks a length byte whose top two bits are set,
	// turning it into the first byte of a 14-bit compression pointer.
	pointerMask = 0xC0

	// maxPointerHops bounds how many compression pointers a single
	// name decode may follow before we declare the chain hostile.
	maxPointerHops = 10
)

// unpackName decodes a possibly-compressed name starting at off.
//
// It returns the dot-joined labels and the offset at which the caller
// must resume reading the surrounding section: one byte past the zero
// terminator when no pointer was followed, or two bytes past the first
// pointer otherwise. Later pointers in a chain never move the resume
// offset because the caller's section continues after the first one.
//
// The walk is a plain loop over an explicit offset. Pointers may only
// form chains up to [maxPointerHops] long; longer chains fail with
// [ErrCompressionLoop]. Any read past the end of buf fails with
// [ErrTruncatedRecord].
func unpackName(buf []byte, off int) (string, int, error) {
	var (
		labels []string
		resume = -1
		hops   = 0
	)

	for {
		if off >= len(buf) {
			return "", 0, fmt.Errorf("%w: name at offset %d", ErrTruncatedRecord, off)
		}
		length := int(buf[off])

		// Compression pointer: low 6 bits of this byte plus the
		// next byte form an absolute offset into the buffer.
		if length&pointerMask == pointerMask {
			if off+1 >= len(buf) {
				return "", 0, fmt.Errorf("%w: pointer at offset %d", ErrTruncatedRecord, off)
			}
			hops++
			if hops > maxPointerHops {
				return "", 0, ErrCompressionLoop
			}
			if resume < 0 {
				resume = off + 2
			}
			off = (length&^pointerMask)<<8 | int(buf[off+1])
			continue
		}

		// Zero length: end of name.
		if length == 0 {
			off++
			break
		}

		// Regular label.
		if off+1+length > len(buf) {
			return "", 0, fmt.Errorf("%w: label at offset %d", ErrTruncatedRecord, off)
		}
		labels = append(labels, string(buf[off+1:off+1+length]))
		off += 1 + length
	}

	if resume >= 0 {
		off = resume
	}
	return strings.Join(labels, "."), off, nil
}

// skipName advances past an encoded name without decoding it. Inside the
// question section a pointer cannot meaningfully redirect the cursor, so
// encountering one just consumes its two bytes and ends the name.
func skipName(buf []byte, off int) (int, error) {
	for {
		if off >= len(buf) {
			return 0, fmt.Errorf("%w: name at offset %d", ErrTruncatedRecord, off)
		}
		length := int(buf[off])
		switch {
		case length&pointerMask == pointerMask:
			return off + 2, nil
		case length == 0:
			return off + 1, nil
		default:
			off += 1 + length
		}
	}
}
