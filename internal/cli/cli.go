// SPDX-License-Identifier: GPL-3.0-or-later

// Package cli implements the dnsq command: a one-shot query mode and an
// interactive prompt loop, both orchestrating the codec in the root
// package and the UDP collaborator in internal/transport.
package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/miekg/dns"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bassosimone/dnsq/internal/config"
	"github.com/bassosimone/dnsq/internal/transport"
)

// NewCommand constructs the dnsq root command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dnsq [domain]",
		Short: "Query a DNS resolver over UDP and decode the reply",
		Long: `dnsq builds a DNS question packet, sends it over UDP to a resolver,
and decodes the binary response into resource records.

With a domain argument it performs a single query and exits. Without
arguments it enters an interactive prompt loop.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.String("server", "", "resolver IP address (default from config, else "+config.DefaultServer+")")
	flags.Int("port", 0, "resolver UDP port (default from config, else 53)")
	flags.Duration("timeout", 0, "query timeout (default from config, else 5s)")
	flags.StringP("type", "t", "A", "record type name (A, NS, CNAME, MX, TXT, AAAA, ANY, ...) or numeric code")
	flags.String("config", "dnsq.toml", "path to the resolver profile")
	flags.Bool("debug", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")

	logger, err := newLogger(debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	configPath, _ := flags.GetString("config")
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags win over the profile, the profile over built-in defaults.
	server := conf.Resolver.Server
	if s, _ := flags.GetString("server"); s != "" {
		server = s
	}
	port := conf.Resolver.Port
	if p, _ := flags.GetInt("port"); p != 0 {
		port = p
	}
	client := transport.NewClient(logger)
	client.Timeout = conf.Resolver.Timeout()
	if d, _ := flags.GetDuration("timeout"); d != 0 {
		client.Timeout = d
	}

	sess := &session{
		client: client,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		logger: logger,
	}

	if len(args) == 1 {
		typeName, _ := flags.GetString("type")
		qtype, err := parseRecordType(typeName)
		if err != nil {
			return err
		}
		return sess.queryOnce(net.JoinHostPort(server, strconv.Itoa(port)), args[0], qtype)
	}

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupted
		fmt.Fprintln(cmd.OutOrStdout())
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Exiting.")
		os.Exit(0)
	}()

	sess.interactive(server, port)
	return nil
}

// newLogger builds a console logger with colored levels and no
// stacktraces. Debug level shows per-exchange transport details.
func newLogger(debug bool) (*zap.Logger, error) {
	logCfg := zap.NewDevelopmentConfig()
	logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logCfg.DisableStacktrace = true
	logCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logCfg.Build()
}

// parseRecordType maps a record type given by mnemonic or by numeric
// code to its 16-bit value. Any numeric 16-bit value is accepted, even
// codes this tool cannot decode beyond a placeholder.
func parseRecordType(s string) (uint16, error) {
	if code, err := strconv.ParseUint(s, 10, 16); err == nil {
		return uint16(code), nil
	}
	if code, ok := dns.StringToType[s]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("cli: unknown record type %q", s)
}
