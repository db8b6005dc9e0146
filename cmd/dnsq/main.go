// SPDX-License-Identifier: GPL-3.0-or-later

// Command dnsq queries a DNS resolver over UDP and decodes the reply.
package main

import (
	"fmt"
	"os"

	"github.com/bassosimone/dnsq/internal/cli"
)

func main() {
	if err := cli.NewCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dnsq: %s\n", err)
		os.Exit(1)
	}
}
