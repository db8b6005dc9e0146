// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

const (
	// queryFlags marks the packet as a standard query with
	// recursion desired (RD bit set).
	queryFlags = 0x0100

	// classINET is the Internet class. We never query any other class.
	classINET = 1

	// MaxResponseSizeUDP is the maximum response size when using UDP
	// and is consistent with what the standard library uses.
	MaxResponseSizeUDP = 1232
)

// Query is a single-question DNS query.
//
// Construct using [NewQuery] or set the MANDATORY fields. The struct is
// plain data: [*Query.Pack] does not mutate it, so the same value may be
// packed any number of times.
type Query struct {
	// ID is the OPTIONAL transaction ID used to correlate the
	// response with the query.
	ID uint16

	// Name is the MANDATORY domain name to query. It must be ASCII;
	// a trailing dot is accepted and ignored.
	Name string

	// Type is the MANDATORY query type. Any 16-bit value is accepted;
	// we do not validate against a known-type allowlist.
	Type uint16
}

// NewQuery constructs a new [*Query] with a randomized transaction ID.
func NewQuery(name string, qtype uint16) *Query {
	return &Query{
		ID:   dns.Id(),
		Name: name,
		Type: qtype,
	}
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	return &Query{
		ID:   q.ID,
		Name: q.Name,
		Type: q.Type,
	}
}

// Pack serializes the query into its wire representation: the 12-byte
// header, the length-prefixed question name, and the 16-bit type and
// class, with all multi-byte integers in network byte order.
//
// Packing fails with [ErrNameNotASCII] or [ErrLabelTooLong] when the
// name cannot be represented on the wire. Per the protocol's permissive
// heritage we do not enforce the 63-byte label or 253-byte name limits.
func (q *Query) Pack() ([]byte, error) {
	name, err := packName(q.Name)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 12+len(name)+4)
	out = binary.BigEndian.AppendUint16(out, q.ID)
	out = binary.BigEndian.AppendUint16(out, queryFlags)
	out = binary.BigEndian.AppendUint16(out, 1) // QDCOUNT
	out = binary.BigEndian.AppendUint16(out, 0) // ANCOUNT
	out = binary.BigEndian.AppendUint16(out, 0) // NSCOUNT
	out = binary.BigEndian.AppendUint16(out, 0) // ARCOUNT
	out = append(out, name...)
	out = binary.BigEndian.AppendUint16(out, q.Type)
	out = binary.BigEndian.AppendUint16(out, classINET)
	return out, nil
}

// packName encodes a dot-separated domain name as a sequence of
// length-prefixed labels terminated by a zero-length label.
func packName(name string) ([]byte, error) {
	out := make([]byte, 0, len(name)+2)
	for _, label := range strings.Split(strings.Trim(name, "."), ".") {
		if label == "" {
			continue
		}
		if len(label) > 255 {
			return nil, fmt.Errorf("%w: %q", ErrLabelTooLong, label)
		}
		for i := 0; i < len(label); i++ {
			if label[i] > 0x7F {
				return nil, fmt.Errorf("%w: %q", ErrNameNotASCII, label)
			}
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	out = append(out, 0)
	return out, nil
}
