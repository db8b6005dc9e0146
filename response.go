// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Well-known record type codes decoded by this package. Records of any
// other type are kept with an opaque placeholder payload.
const (
	TypeA     = 1
	TypeNS    = 2
	TypeCNAME = 5
	TypeSOA   = 6
	TypePTR   = 12
	TypeMX    = 15
	TypeTXT   = 16
	TypeAAAA  = 28
	TypeANY   = 255
)

// Header is the fixed 12-byte header of a DNS message.
//
// It is parsed once by [ParseResponse] and read-only thereafter.
type Header struct {
	// ID is the transaction ID echoed from the query.
	//
	// Note that [ParseResponse] does NOT check the ID against the
	// query that was sent, nor can it know which server the buffer
	// came from: correlating responses is the caller's job.
	ID uint16

	// Flags is the raw flags word. The response code occupies
	// the low four bits.
	Flags uint16

	// QDCount is the number of entries in the question section.
	QDCount uint16

	// ANCount is the number of entries in the answer section.
	ANCount uint16

	// NSCount is the number of entries in the authority section.
	NSCount uint16

	// ARCount is the number of entries in the additional section.
	ARCount uint16
}

// RCode returns the 4-bit response code carried in the flags word.
func (h Header) RCode() int {
	return int(h.Flags & 0x000F)
}

// Record is a single decoded resource record from the answer section.
type Record struct {
	// Name is the decompressed owner name.
	Name string

	// Type is the 16-bit record type code.
	Type uint16

	// Class is the 16-bit record class.
	Class uint16

	// TTL is the time to live in seconds.
	TTL uint32

	// DataLen is the declared RDATA length in bytes. It is
	// authoritative for record boundaries on the wire regardless
	// of how many bytes the payload decoder consumed.
	DataLen uint16

	// Data is the decoded payload: a dotted IPv4 string for A, a
	// colon-hex string for AAAA, a domain name for CNAME and NS,
	// "<preference> <exchange>" for MX, the text for TXT, and an
	// opaque "<Record type N>" placeholder for anything else.
	Data string
}

// Response is a decoded DNS response.
//
// Construct a new instance using [ParseResponse].
type Response struct {
	// Header is the parsed message header.
	Header Header

	// Answers holds the answer-section records in wire order. The
	// authority and additional sections are not decoded; their counts
	// remain available in the header.
	Answers []Record
}

// ParseResponse decodes a raw response buffer of untrusted length and
// content. A nonzero response code does not abort the decode: the
// header (and thus [Header.RCode]) is still returned, typically with an
// empty answer list since error responses carry no records.
//
// Decoding fails with [ErrTruncatedHeader], [ErrTruncatedRecord] or
// [ErrCompressionLoop]. There is no partial-record recovery: the first
// malformed read fails the whole decode.
func ParseResponse(raw []byte) (*Response, error) {
	// 1. parse the fixed-size header
	header, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	// 2. skip the question section to reach the answers
	off := headerSize
	for i := 0; i < int(header.QDCount); i++ {
		off, err = skipName(raw, off)
		if err != nil {
			return nil, err
		}
		off += 4 // type and class
	}

	// 3. decode each answer record
	resp := &Response{Header: header}
	for i := 0; i < int(header.ANCount); i++ {
		var rec Record
		rec, off, err = parseRecord(raw, off)
		if err != nil {
			return nil, err
		}
		resp.Answers = append(resp.Answers, rec)
	}
	return resp, nil
}

// headerSize is the size of the fixed DNS header.
const headerSize = 12

func parseHeader(raw []byte) (Header, error) {
	if len(raw) < headerSize {
		return Header{}, fmt.Errorf("%w: got %d bytes", ErrTruncatedHeader, len(raw))
	}
	return Header{
		ID:      binary.BigEndian.Uint16(raw[0:2]),
		Flags:   binary.BigEndian.Uint16(raw[2:4]),
		QDCount: binary.BigEndian.Uint16(raw[4:6]),
		ANCount: binary.BigEndian.Uint16(raw[6:8]),
		NSCount: binary.BigEndian.Uint16(raw[8:10]),
		ARCount: binary.BigEndian.Uint16(raw[10:12]),
	}, nil
}

// parseRecord decodes one resource record starting at off and returns
// it together with the offset of the next record. The next record
// starts DataLen bytes past the fixed fields: the declared length wins
// over whatever the payload decoder consumed.
func parseRecord(raw []byte, off int) (Record, int, error) {
	name, off, err := unpackName(raw, off)
	if err != nil {
		return Record{}, 0, err
	}

	if off+10 > len(raw) {
		return Record{}, 0, fmt.Errorf("%w: record header at offset %d", ErrTruncatedRecord, off)
	}
	rec := Record{
		Name:    name,
		Type:    binary.BigEndian.Uint16(raw[off : off+2]),
		Class:   binary.BigEndian.Uint16(raw[off+2 : off+4]),
		TTL:     binary.BigEndian.Uint32(raw[off+4 : off+8]),
		DataLen: binary.BigEndian.Uint16(raw[off+8 : off+10]),
	}
	off += 10

	if off+int(rec.DataLen) > len(raw) {
		return Record{}, 0, fmt.Errorf("%w: %d bytes of data at offset %d", ErrTruncatedRecord, rec.DataLen, off)
	}
	rec.Data, err = unpackData(raw, off, int(rec.Type), int(rec.DataLen))
	if err != nil {
		return Record{}, 0, err
	}
	return rec, off + int(rec.DataLen), nil
}

// unpackData decodes the RDATA of a record per its type code. Types
// whose payload may embed a compressed name (CNAME, NS, MX) decode it
// against the whole buffer; the resume offset is irrelevant there since
// DataLen alone determines the record boundary.
func unpackData(raw []byte, off, rtype, dlen int) (string, error) {
	data := raw[off : off+dlen]

	switch rtype {
	case TypeA:
		if dlen < 4 {
			return "", fmt.Errorf("%w: A record with %d bytes", ErrTruncatedRecord, dlen)
		}
		return fmt.Sprintf("%d.%d.%d.%d", data[0], data[1], data[2], data[3]), nil

	case TypeAAAA:
		if dlen < 16 {
			return "", fmt.Errorf("%w: AAAA record with %d bytes", ErrTruncatedRecord, dlen)
		}
		groups := make([]string, 0, 8)
		for i := 0; i < 16; i += 2 {
			groups = append(groups, strconv.FormatUint(uint64(binary.BigEndian.Uint16(data[i:i+2])), 16))
		}
		return strings.Join(groups, ":"), nil

	case TypeCNAME, TypeNS:
		name, _, err := unpackName(raw, off)
		return name, err

	case TypeMX:
		if dlen < 2 {
			return "", fmt.Errorf("%w: MX record with %d bytes", ErrTruncatedRecord, dlen)
		}
		preference := binary.BigEndian.Uint16(data[0:2])
		exchange, _, err := unpackName(raw, off+2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %s", preference, exchange), nil

	case TypeTXT:
		if dlen < 1 {
			return "", fmt.Errorf("%w: TXT record with %d bytes", ErrTruncatedRecord, dlen)
		}
		tlen := int(data[0])
		if 1+tlen > dlen {
			return "", fmt.Errorf("%w: TXT text of %d bytes in %d bytes of data", ErrTruncatedRecord, tlen, dlen)
		}
		return asciiReplace(data[1 : 1+tlen]), nil

	default:
		return fmt.Sprintf("<Record type %d>", rtype), nil
	}
}

// asciiReplace renders b as text, substituting U+FFFD for any byte
// outside the ASCII range instead of failing the decode.
func asciiReplace(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c > 0x7F {
			sb.WriteRune('�')
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
