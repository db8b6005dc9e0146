// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/net/idna"

	"github.com/bassosimone/dnsq"
	"github.com/bassosimone/dnsq/internal/transport"
)

// session holds the state of one operator session: the transport
// client and the streams to prompt on. Streams are injected so tests
// can script a whole interactive run.
type session struct {
	client *transport.Client
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
}

// queryOnce performs a single query and renders the outcome. Encoding
// and decoding failures propagate; so do transport failures, since in
// one-shot mode there is no loop to keep alive.
func (s *session) queryOnce(addr, domain string, qtype uint16) error {
	name, err := normalizeDomain(domain)
	if err != nil {
		return err
	}

	query := dnsq.NewQuery(name, qtype)
	packet, err := query.Pack()
	if err != nil {
		return err
	}

	start := time.Now()
	reply, err := s.client.Exchange(addr, packet)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	resp, err := dnsq.ParseResponse(reply)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(s.out, "Response received in %.2f ms:\n", float64(elapsed.Microseconds())/1000)
	fmt.Fprint(s.out, resp.Format())
	return nil
}

// interactive runs the prompt loop: ask once for the resolver, then
// query until the operator declines to continue. Any failure, the
// transport's timeouts included, is reported and the loop goes on.
func (s *session) interactive(defaultServer string, defaultPort int) {
	scanner := bufio.NewScanner(s.in)

	color.New(color.FgCyan, color.Bold).Fprintln(s.out, "DNS Query Tool")
	fmt.Fprintln(s.out, "Use Ctrl+C to exit.")

	server, ok := s.prompt(scanner, fmt.Sprintf("Enter DNS server IP (default: %s): ", defaultServer))
	if server == "" {
		server = defaultServer
	}
	port := defaultPort
	if raw, _ := s.prompt(scanner, fmt.Sprintf("Enter DNS server port (default: %d): ", defaultPort)); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(s.out, "Invalid port. Using default.")
		} else {
			port = parsed
		}
	}
	addr := net.JoinHostPort(server, strconv.Itoa(port))

	for ok {
		var domain string
		domain, ok = s.prompt(scanner, "\nEnter domain name to query: ")
		if !ok {
			return
		}
		if domain == "" {
			continue
		}

		qtype := s.promptRecordType(scanner)

		fmt.Fprintf(s.out, "\nQuerying %s for record type %d from %s...\n", domain, qtype, addr)
		if err := s.queryOnce(addr, domain, qtype); err != nil {
			s.logger.Debug("query failed", zap.Error(err))
			color.New(color.FgRed).Fprintf(s.out, "Error: %s\n", err)
		}

		again, _ := s.prompt(scanner, "Make another query? (y/n): ")
		if strings.ToLower(again) != "y" {
			return
		}
	}
}

// prompt prints a prompt and returns the next line, trimmed. The second
// return value is false once the input stream is closed.
func (s *session) prompt(scanner *bufio.Scanner, text string) (string, bool) {
	color.New(color.FgCyan).Fprint(s.out, text)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// promptRecordType shows the fixed record-type menu and reads a choice.
// The default is A; any 16-bit value is accepted, menu entry or not.
func (s *session) promptRecordType(scanner *bufio.Scanner) uint16 {
	fmt.Fprintln(s.out, "\nSelect DNS record type:")
	fmt.Fprintln(s.out, "1. A (IPv4 address)")
	fmt.Fprintln(s.out, "2. NS (Name Server)")
	fmt.Fprintln(s.out, "5. CNAME (Canonical Name)")
	fmt.Fprintln(s.out, "15. MX (Mail Exchange)")
	fmt.Fprintln(s.out, "16. TXT (Text record)")
	fmt.Fprintln(s.out, "28. AAAA (IPv6 address)")
	fmt.Fprintln(s.out, "255. ANY (All records)")

	for {
		raw, ok := s.prompt(scanner, "Enter record type number (default: 1): ")
		if raw == "" || !ok {
			return dnsq.TypeA
		}
		code, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a valid number.")
			continue
		}
		return uint16(code)
	}
}

// normalizeDomain converts a domain with non-ASCII characters to its
// IDNA (punycode) form. Plain ASCII passes through untouched so that
// names the IDNA lookup profile rejects, such as "_dmarc.example.com",
// still reach the permissive encoder.
func normalizeDomain(domain string) (string, error) {
	for i := 0; i < len(domain); i++ {
		if domain[i] > 0x7F {
			return idna.Lookup.ToASCII(domain)
		}
	}
	return domain, nil
}
