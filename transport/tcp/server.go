// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/pridebank/atm-gateway/internal/metrics"
	"github.com/pridebank/atm-gateway/iso8583"
	"github.com/pridebank/atm-gateway/transport"
)

// Server is the terminal-facing ISO8583 TCP listener. Connections are
// handed to a bounded worker pool; one worker owns one connection for its
// whole lifetime and processes its messages strictly in sequence.
type Server struct {
	Address     string
	Workers     int
	ReadTimeout time.Duration
	Handler     transport.Handler

	listener net.Listener
}

// NewServer creates a Server. workers bounds the number of concurrently
// served connections; readTimeout evicts stalled clients.
func NewServer(address string, workers int, readTimeout time.Duration) *Server {
	if workers <= 0 {
		workers = 20
	}
	return &Server{
		Address:     address,
		Workers:     workers,
		ReadTimeout: readTimeout,
	}
}

// Start runs the accept loop until the context is cancelled. Closing the
// listener makes the loop exit without error.
func (s *Server) Start(ctx context.Context, handler transport.Handler) error {
	s.Handler = handler
	listener, err := net.Listen("tcp", s.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Address, err)
	}
	s.listener = listener
	slog.Info("ISO8583 TCP server listening", "addr", listener.Addr(), "workers", s.Workers)

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	// Counting semaphore: one slot per worker.
	slots := make(chan struct{}, s.Workers)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				slog.Error("failed to accept connection", "err", err)
				continue
			}
		}

		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			conn.Close()
			return nil
		}
		go func(c net.Conn) {
			defer func() { <-slots }()
			s.handleConnection(ctx, c)
		}(conn)
	}
}

// Close closes the listener. In-flight connections are not drained; their
// workers exit on the next read after the context is cancelled.
func (s *Server) Close() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Addr returns the bound listener address, for tests and logs.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	log := slog.With("addr", conn.RemoteAddr(), "session", uuid.NewString())
	log.Info("terminal connected")

	reader := bufio.NewReader(conn)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
				log.Error("failed to set read deadline", "err", err)
				return
			}
		}

		payload, err := ReadFrame(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("terminal disconnected")
			} else {
				// Partial frame, zero length or timeout: no valid request
				// was received, so no reply is attempted.
				log.Warn("framing error, closing connection", "err", err)
			}
			return
		}

		request, parseErr := iso8583.Decode(payload)
		if parseErr != nil {
			log.Warn("unparseable request", "err", parseErr)
			// The handler still owes the terminal a well-formed format
			// error response; the connection is done afterwards.
		}

		response := s.Handler(ctx, request)
		if response == nil {
			log.Error("handler returned no response")
			return
		}

		raw, err := response.Encode()
		if err != nil {
			log.Error("failed to encode response", "mti", response.MTI, "err", err)
			return
		}
		if err := WriteFrame(conn, raw); err != nil {
			log.Error("failed to write response", "err", err)
			return
		}

		if parseErr != nil {
			return
		}
	}
}
