// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func TestQueryClone(t *testing.T) {
	query := &Query{
		ID:   1234,
		Name: "www.example.com",
		Type: TypeA,
	}

	clone := query.Clone()

	require.NotSame(t, query, clone)
	require.Equal(t, query, clone)

	clone.ID = 5678
	clone.Name = "www.example.net"
	clone.Type = TypeAAAA

	require.Equal(t, uint16(1234), query.ID)
	require.Equal(t, "www.example.com", query.Name)
	require.Equal(t, uint16(TypeA), query.Type)
}

func TestQueryPack(t *testing.T) {
	query := &Query{
		ID:   0xABCD,
		Name: "example.com",
		Type: TypeA,
	}

	raw, err := query.Pack()
	require.NoError(t, err)

	expected := []byte{
		0xAB, 0xCD, // ID
		0x01, 0x00, // flags: standard query, RD
		0x00, 0x01, // QDCOUNT
		0x00, 0x00, // ANCOUNT
		0x00, 0x00, // NSCOUNT
		0x00, 0x00, // ARCOUNT
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		3, 'c', 'o', 'm',
		0,
		0x00, 0x01, // type A
		0x00, 0x01, // class IN
	}
	require.Equal(t, expected, raw)
}

func TestQueryPackNameVariants(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected []byte
	}{
		{"TrailingDot", "example.com.", []byte("\x07example\x03com\x00")},
		{"LeadingDot", ".example.com", []byte("\x07example\x03com\x00")},
		{"RootOnly", ".", []byte("\x00")},
		{"Empty", "", []byte("\x00")},
		{"SingleLabel", "localhost", []byte("\x09localhost\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := packName(tt.domain)
			require.NoError(t, err)
			require.Equal(t, tt.expected, raw)
		})
	}
}

func TestQueryPackErrors(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected error
	}{
		{"NonASCII", "bücher.example", ErrNameNotASCII},
		{"LabelTooLong", strings.Repeat("a", 256) + ".example", ErrLabelTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := NewQuery(tt.domain, TypeA)
			_, err := query.Pack()
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

// A label between 64 and 255 bytes does not fit the standard limits but
// we pack it anyway: length limits are deliberately not enforced.
func TestQueryPackPermissiveLabelLength(t *testing.T) {
	label := strings.Repeat("a", 200)
	raw, err := packName(label + ".example")
	require.NoError(t, err)
	require.Equal(t, byte(200), raw[0])
}

// Skipping the question name of a freshly packed query must land the
// cursor exactly on the type field, for any valid domain shape.
func TestQueryPackSkipNameLandsOnType(t *testing.T) {
	for _, domain := range []string{
		"example.com",
		"a.b.c.d.e.example.com",
		"localhost",
		"example.com.",
	} {
		query := NewQuery(domain, TypeMX)
		raw := runtimex.PanicOnError1(query.Pack())

		off, err := skipName(raw, headerSize)
		require.NoError(t, err)
		require.Equal(t, query.Type, binary.BigEndian.Uint16(raw[off:off+2]))
		require.Equal(t, uint16(classINET), binary.BigEndian.Uint16(raw[off+2:off+4]))
		require.Equal(t, len(raw), off+4)
	}
}

// Cross-check the packed bytes against an independent implementation.
func TestQueryPackInterop(t *testing.T) {
	query := NewQuery("www.example.com", TypeTXT)
	raw := runtimex.PanicOnError1(query.Pack())

	msg := new(dns.Msg)
	require.NoError(t, msg.Unpack(raw))

	require.Equal(t, query.ID, msg.Id)
	require.False(t, msg.Response)
	require.True(t, msg.RecursionDesired)
	require.Len(t, msg.Question, 1)
	require.Equal(t, "www.example.com.", msg.Question[0].Name)
	require.Equal(t, dns.TypeTXT, msg.Question[0].Qtype)
	require.Equal(t, uint16(dns.ClassINET), msg.Question[0].Qclass)
}
