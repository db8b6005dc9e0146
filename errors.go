// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import "errors"

// Errors emitted when packing a [*Query].
var (
	// ErrNameNotASCII means the domain name contains non-ASCII bytes. The
	// encoder never transliterates; IDNA conversion is the caller's job.
	ErrNameNotASCII = errors.New("dnsq: domain name is not ASCII")

	// ErrLabelTooLong means a label does not fit its one-byte length prefix.
	ErrLabelTooLong = errors.New("dnsq: domain label exceeds 255 bytes")
)

// Errors emitted when parsing a response buffer.
var (
	// ErrTruncatedHeader means the buffer is shorter than the 12-byte header.
	ErrTruncatedHeader = errors.New("dnsq: truncated header")

	// ErrTruncatedRecord means a read during question or answer parsing
	// would fall past the end of the buffer.
	ErrTruncatedRecord = errors.New("dnsq: truncated record")

	// ErrCompressionLoop means a single name followed more than
	// [maxPointerHops] compression pointers, which indicates a
	// malicious or corrupt pointer chain.
	ErrCompressionLoop = errors.New("dnsq: too many compression pointers")
)
