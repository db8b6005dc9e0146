// SPDX-License-Identifier: GPL-3.0-or-later

// Package transport implements the blocking UDP exchange used to carry
// a packed DNS query to a resolver and bring back the raw reply. The
// wire codec itself lives in the root package and never does I/O.
package transport

import (
	"net"
	"time"

	"github.com/bassosimone/dnsq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a whole exchange (send plus receive).
const DefaultTimeout = 5 * time.Second

// ErrTimeout means the resolver did not answer within the deadline.
//
// This is a recoverable condition: the caller reports it and may issue
// further queries. We never retry on its behalf.
var ErrTimeout = errors.New("transport: query timed out")

// Client performs one blocking query/response exchange at a time over
// UDP. The zero value is not usable; construct with [NewClient].
type Client struct {
	// Timeout is the deadline for a whole exchange.
	Timeout time.Duration

	// Logger logs exchanges at debug level.
	Logger *zap.Logger
}

// NewClient constructs a [*Client] with [DefaultTimeout].
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		Timeout: DefaultTimeout,
		Logger:  logger,
	}
}

// Exchange sends the packed query to addr (a host:port string) and
// blocks until a single datagram comes back or the deadline expires.
//
// The reply buffer is returned as-is: no correlation with the query ID
// and no check that the datagram came from addr. Timeouts map to
// [ErrTimeout]; any other socket failure is returned with context.
func (c *Client) Exchange(addr string, query []byte) ([]byte, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: cannot dial %s", addr)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return nil, errors.Wrap(err, "transport: cannot set deadline")
	}

	start := time.Now()
	if _, err := conn.Write(query); err != nil {
		return nil, errors.Wrapf(err, "transport: cannot send query to %s", addr)
	}

	buffer := make([]byte, dnsq.MaxResponseSizeUDP)
	count, err := conn.Read(buffer)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, errors.Wrapf(ErrTimeout, "after %s", c.Timeout)
		}
		return nil, errors.Wrapf(err, "transport: cannot receive from %s", addr)
	}

	c.Logger.Debug("exchange complete",
		zap.String("addr", addr),
		zap.Int("querySize", len(query)),
		zap.Int("replySize", count),
		zap.Duration("elapsed", time.Since(start)),
	)
	return buffer[:count], nil
}
