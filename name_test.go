// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnpackName(t *testing.T) {
	// Buffer layout: a name at offset 0, a second name at offset 13
	// whose tail is a pointer back into the first one.
	buf := []byte(
		"\x07example\x03com\x00" + // offset 0: example.com
			"\x03www\xC0\x00" + // offset 13: www + pointer to offset 0
			"\xC0\x0D", // offset 19: pointer to offset 13
	)

	tests := []struct {
		name     string
		off      int
		expected string
		resume   int
	}{
		{"Uncompressed", 0, "example.com", 13},
		{"PointerTail", 13, "www.example.com", 19},
		{"PointerOnly", 19, "www.example.com", 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, resume, err := unpackName(buf, tt.off)
			require.NoError(t, err)
			require.Equal(t, tt.expected, name)
			require.Equal(t, tt.resume, resume)
		})
	}
}

// The resume offset must point past the FIRST pointer even when the
// chain hops through several of them.
func TestUnpackNameChainedPointers(t *testing.T) {
	buf := []byte(
		"\x07example\x03com\x00" + // offset 0
			"\xC0\x00" + // offset 13: -> 0
			"\x03www\xC0\x0D", // offset 15: www -> 13 -> 0
	)

	name, resume, err := unpackName(buf, 15)
	require.NoError(t, err)
	require.Equal(t, "www.example.com", name)
	require.Equal(t, 21, resume)
}

func TestUnpackNameCompressionLoop(t *testing.T) {
	// A pointer that resolves to itself: every hop lands back at
	// offset 0, so the decode must give up at the hop cap.
	buf := []byte{0xC0, 0x00}

	_, _, err := unpackName(buf, 0)
	require.ErrorIs(t, err, ErrCompressionLoop)
}

func TestUnpackNameElevenChainedPointers(t *testing.T) {
	// Eleven distinct pointers each referencing the previous one,
	// ending in a self-reference. More hops than the cap allows.
	var buf []byte
	buf = append(buf, 0xC0, 0x00)
	for i := 1; i <= 11; i++ {
		off := (i - 1) * 2
		buf = append(buf, 0xC0|byte(off>>8), byte(off))
	}

	_, _, err := unpackName(buf, len(buf)-2)
	require.ErrorIs(t, err, ErrCompressionLoop)
}

func TestUnpackNameTruncated(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		off  int
	}{
		{"EmptyBuffer", nil, 0},
		{"OffsetPastEnd", []byte{0x00}, 5},
		{"LabelPastEnd", []byte{0x05, 'a', 'b'}, 0},
		{"PointerMissingSecondByte", []byte{0xC0}, 0},
		{"PointerPastEnd", []byte{0xC0, 0x7F}, 0},
		{"MissingTerminator", []byte{0x03, 'c', 'o', 'm'}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := unpackName(tt.buf, tt.off)
			require.ErrorIs(t, err, ErrTruncatedRecord)
		})
	}
}

func TestSkipName(t *testing.T) {
	tests := []struct {
		name     string
		buf      []byte
		off      int
		expected int
	}{
		{"Plain", []byte("\x07example\x03com\x00xx"), 0, 13},
		{"Root", []byte{0x00}, 0, 1},
		{"Pointer", []byte{0xC0, 0x04, 0xFF}, 0, 2},
		{"LabelsThenPointer", []byte("\x03www\xC0\x00"), 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, err := skipName(tt.buf, tt.off)
			require.NoError(t, err)
			require.Equal(t, tt.expected, off)
		})
	}
}

func TestSkipNameTruncated(t *testing.T) {
	_, err := skipName([]byte{0x03, 'c', 'o'}, 0)
	require.ErrorIs(t, err, ErrTruncatedRecord)
}
