// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package iso8583

import "fmt"

// EncodingError reports a value that cannot be represented in its field's
// declared encoding. It is message-fatal, not connection-fatal.
type EncodingError struct {
	Field  int
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("iso8583: field %d cannot be encoded: %s", e.Field, e.Reason)
}

// ParseError reports malformed or truncated wire bytes. The connection the
// bytes arrived on cannot be trusted afterwards.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("iso8583: parse failed at offset %d: %s", e.Offset, e.Reason)
}
