// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package tcp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire framing, both directions: a 2-byte big-endian length prefix (MLI)
// followed by that many bytes of ISO8583 payload. The framing is a
// transport convention, independent of ISO8583 itself.

const maxFrameSize = 64 * 1024

// ReadFrame reads one length-prefixed payload. io.EOF before any prefix
// byte means the peer closed between messages; any other short read is a
// framing error and the connection cannot be reused.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("tcp: failed to read length prefix: %w", err)
	}

	length := int(binary.BigEndian.Uint16(prefix[:]))
	if length == 0 {
		return nil, fmt.Errorf("tcp: zero-length frame")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("tcp: frame declares %d bytes: %w", length, err)
	}
	return payload, nil
}

// WriteFrame writes one length-prefixed payload.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 || len(payload) >= maxFrameSize {
		return fmt.Errorf("tcp: payload of %d bytes cannot be framed", len(payload))
	}
	frame := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(frame[:2], uint16(len(payload)))
	copy(frame[2:], payload)
	_, err := w.Write(frame)
	return err
}
