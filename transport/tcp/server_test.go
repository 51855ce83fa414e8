// Copyright (c) 2026 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.
package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/pridebank/atm-gateway/iso8583"
	"github.com/pridebank/atm-gateway/transport"
)

// echoHandler answers every request with a 0210 carrying response code 00,
// or a 0231/30 when the request did not parse.
func echoHandler(t *testing.T) transport.Handler {
	return func(ctx context.Context, request *iso8583.Message) *iso8583.Message {
		if request == nil {
			resp := iso8583.New(iso8583.MTIFormatError)
			resp.Set(iso8583.FieldResponseCode, "30")
			return resp
		}
		mti, err := iso8583.ResponseMTI(request.MTI)
		if err != nil {
			t.Errorf("ResponseMTI failed: %v", err)
			mti = iso8583.MTIFinancialResponse
		}
		resp := iso8583.NewResponseFromRequest(request, mti)
		resp.Set(iso8583.FieldResponseCode, "00")
		return resp
	}
}

func startServer(t *testing.T, handler transport.Handler) (addr string, cancel context.CancelFunc) {
	t.Helper()
	// Pre-allocate a port so the test does not race on reading s.listener.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr = l.Addr().String()
	l.Close()

	s := NewServer(addr, 4, 2*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := s.Start(ctx, handler); err != nil {
			t.Errorf("server stopped with error: %v", err)
		}
	}()
	t.Cleanup(cancel)
	// Wait until the listener is actually bound so callers can dial
	// without racing the server goroutine.
	for i := 0; i < 200 && s.Addr() == nil; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Addr() == nil {
		t.Fatal("server did not start listening")
	}
	return addr, cancel
}

func dialRetry(t *testing.T, addr string) net.Conn {
	t.Helper()
	var conn net.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			return conn
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("failed to connect to server after retries, last error: %v", err)
	return nil
}

func financialRequest(t *testing.T, stan string) *iso8583.Message {
	t.Helper()
	m, err := iso8583.Build(iso8583.MTIFinancialRequest, map[int]string{
		iso8583.FieldPAN:          "1234567890123456",
		iso8583.FieldAmount:       "000000001500",
		iso8583.FieldTransmission: "0829131500",
		iso8583.FieldSTAN:         stan,
		iso8583.FieldTerminalID:   "TERM01",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func TestServer_RequestResponse(t *testing.T) {
	addr, _ := startServer(t, echoHandler(t))
	conn := dialRetry(t, addr)
	defer conn.Close()

	raw, err := financialRequest(t, "000001").Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := WriteFrame(conn, raw); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	payload, err := ReadFrame(conn)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	resp, err := iso8583.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.MTI != "0210" {
		t.Errorf("MTI: %q", resp.MTI)
	}
	if got := resp.GetString(iso8583.FieldSTAN); got != "000001" {
		t.Errorf("field 11 not echoed: %q", got)
	}
	if got := resp.GetString(iso8583.FieldResponseCode); got != "00" {
		t.Errorf("field 39: %q", got)
	}
}

func TestServer_SequentialOnOneConnection(t *testing.T) {
	addr, _ := startServer(t, echoHandler(t))
	conn := dialRetry(t, addr)
	defer conn.Close()

	for i, stan := range []string{"000001", "000002", "000003"} {
		raw, err := financialRequest(t, stan).Encode()
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := WriteFrame(conn, raw); err != nil {
			t.Fatalf("request %d: WriteFrame failed: %v", i, err)
		}
		payload, err := ReadFrame(conn)
		if err != nil {
			t.Fatalf("request %d: ReadFrame failed: %v", i, err)
		}
		resp, err := iso8583.Decode(payload)
		if err != nil {
			t.Fatalf("request %d: Decode failed: %v", i, err)
		}
		if got := resp.GetString(iso8583.FieldSTAN); got != stan {
			t.Errorf("request %d: response STAN %q, want %q", i, got, stan)
		}
	}
}

func TestServer_UnparseablePayloadGetsFormatError(t *testing.T) {
	addr, _ := startServer(t, echoHandler(t))
	conn := dialRetry(t, addr)
	defer conn.Close()

	if err := WriteFrame(conn, []byte("garbage")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	payload, err := ReadFrame(conn)
	if err != nil {
		t.Fatalf("expected a format error reply, got %v", err)
	}
	resp, err := iso8583.Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.MTI != "0231" {
		t.Errorf("MTI: %q", resp.MTI)
	}
	if got := resp.GetString(iso8583.FieldResponseCode); got != "30" {
		t.Errorf("field 39: %q", got)
	}

	// The connection is done after an unparseable request.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := ReadFrame(conn); err == nil {
		t.Error("connection must be closed after an unparseable request")
	}
}

func TestServer_TruncatedFrameClosesWithoutReply(t *testing.T) {
	addr, _ := startServer(t, echoHandler(t))
	conn := dialRetry(t, addr)
	defer conn.Close()

	// Declare 100 bytes, deliver 3, then half-close.
	if _, err := conn.Write([]byte{0x00, 0x64, 'a', 'b', 'c'}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	conn.(*net.TCPConn).CloseWrite()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, err := ReadFrame(conn); err == nil {
		t.Error("expected no reply for a truncated frame")
	}
}

func TestServer_CleanDisconnect(t *testing.T) {
	addr, _ := startServer(t, echoHandler(t))
	conn := dialRetry(t, addr)
	// Closing without sending anything must not disturb the server; a
	// following connection still works.
	conn.Close()

	conn2 := dialRetry(t, addr)
	defer conn2.Close()
	raw, err := financialRequest(t, "000009").Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := WriteFrame(conn2, raw); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if _, err := ReadFrame(conn2); err != nil {
		t.Fatalf("second connection got no reply: %v", err)
	}
}

func TestServer_LifeCycle(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	s := NewServer(addr, 2, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Start(ctx, echoHandler(t))
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned error on shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("accept loop did not exit after cancel")
	}
}
