// SPDX-License-Identifier: GPL-3.0-or-later

// Package dnsq implements a minimal DNS wire-format codec.
//
// [NewQuery] and [*Query.Pack] construct and serialize a single-question
// DNS query message. [ParseResponse] and [*Response] decode a raw,
// untrusted response buffer, including compressed names, into typed
// resource records.
//
// Unlike [github.com/miekg/dns], this package implements the wire format
// by hand. The decoder is written for hostile input: every offset is
// bounds checked and compression-pointer chains are capped, so a
// malformed or adversarial buffer fails with a typed error rather than
// panicking or looping forever.
//
// The codec performs no I/O and holds no process-wide state. Sending the
// packed query and receiving the reply is the caller's job (see
// internal/transport for the UDP collaborator used by the dnsq command).
package dnsq
