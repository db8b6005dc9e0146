// SPDX-License-Identifier: GPL-3.0-or-later

package dnsq

import (
	"fmt"
	"strconv"
	"strings"
)

// rcodeText maps the response codes a resolver can realistically emit
// for our queries to their conventional meaning.
var rcodeText = map[int]string{
	0: "No error",
	1: "Format error",
	2: "Server failure",
	3: "Name error (NXDOMAIN)",
	4: "Not implemented",
	5: "Refused",
}

// typeText maps well-known record type codes to their mnemonic.
var typeText = map[uint16]string{
	TypeA:     "A",
	TypeNS:    "NS",
	TypeCNAME: "CNAME",
	TypeSOA:   "SOA",
	TypePTR:   "PTR",
	TypeMX:    "MX",
	TypeTXT:   "TXT",
	TypeAAAA:  "AAAA",
}

// TypeName returns the mnemonic for a record type code, or the numeric
// code itself when we have no mnemonic for it.
func TypeName(code uint16) string {
	if name, ok := typeText[code]; ok {
		return name
	}
	return strconv.Itoa(int(code))
}

// Format renders the response as a plain-text summary: the header
// fields, the resolved response-code meaning when the code is nonzero,
// and one block per answer record.
func (r *Response) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Transaction ID: %d\n", r.Header.ID)
	fmt.Fprintf(&sb, "Flags: 0x%04x\n", r.Header.Flags)
	fmt.Fprintf(&sb, "Response Code: %d\n", r.Header.RCode())
	fmt.Fprintf(&sb, "Questions: %d\n", r.Header.QDCount)
	fmt.Fprintf(&sb, "Answer RRs: %d\n", r.Header.ANCount)
	fmt.Fprintf(&sb, "Authority RRs: %d\n", r.Header.NSCount)
	fmt.Fprintf(&sb, "Additional RRs: %d\n\n", r.Header.ARCount)

	if rcode := r.Header.RCode(); rcode != 0 {
		meaning, ok := rcodeText[rcode]
		if !ok {
			meaning = "Unassigned"
		}
		fmt.Fprintf(&sb, "Error: %s\n", meaning)
		return sb.String()
	}

	if len(r.Answers) == 0 {
		sb.WriteString("No answers found.\n")
		return sb.String()
	}

	sb.WriteString("Answers:\n")
	for i, rec := range r.Answers {
		fmt.Fprintf(&sb, "Answer %d:\n", i+1)
		fmt.Fprintf(&sb, "  Name: %s\n", rec.Name)
		fmt.Fprintf(&sb, "  Type: %s\n", TypeName(rec.Type))
		fmt.Fprintf(&sb, "  TTL: %d seconds\n", rec.TTL)
		fmt.Fprintf(&sb, "  Data: %s\n\n", rec.Data)
	}
	return sb.String()
}

// String implements [fmt.Stringer].
func (r *Response) String() string {
	return r.Format()
}
