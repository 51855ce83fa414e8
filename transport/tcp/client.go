// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pridebank/atm-gateway/iso8583"
)

const clientTimeout = 10 * time.Second

// Client is a terminal-side ISO8583 client: it frames a request, sends it
// over a short-lived connection and reads the framed response. Used by the
// terminal simulator and by end-to-end tests.
type Client struct {
	Address string
	Timeout time.Duration
}

// NewClient allocates and initializes a Client.
func NewClient(address string) *Client {
	return &Client{
		Address: address,
		Timeout: clientTimeout,
	}
}

// Send performs one request/response exchange.
func (c *Client) Send(ctx context.Context, request *iso8583.Message) (*iso8583.Message, error) {
	raw, err := request.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.Address, err)
	}
	defer conn.Close()

	if err = conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return nil, err
	}

	if err := WriteFrame(conn, raw); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}

	payload, err := ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	response, err := iso8583.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return response, nil
}
