// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package transport

import (
	"context"

	"github.com/pridebank/atm-gateway/iso8583"
)

// Handler turns one parsed request into one response message. It must
// always return a message; per-request failures are the handler's problem
// to encode as error responses. A nil request tells the handler the payload
// framed correctly but did not parse as ISO8583.
type Handler func(ctx context.Context, request *iso8583.Message) *iso8583.Message

// Upstream is a source of terminal requests. It acts as a server.
type Upstream interface {
	// Start runs the listener and blocks until the context is cancelled.
	Start(ctx context.Context, handler Handler) error
	Close() error
}
