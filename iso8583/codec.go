// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package iso8583

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	llvarMax  = 99
	lllvarMax = 999
)

// Build creates a message of the given MTI from its template defaults,
// overlaid with the supplied field values. Every value is normalized to its
// schema encoding (zero-padding, space-padding, truncation) so that the
// stored form is exactly the wire form.
func Build(mti string, values map[int]string) (*Message, error) {
	schema := SchemaFor(mti)
	if schema == nil {
		return nil, &EncodingError{Reason: fmt.Sprintf("unsupported MTI %q", mti)}
	}

	m := New(mti)
	for f, v := range templates[mti] {
		m.Set(f, v)
	}
	for f, v := range values {
		m.Set(f, v)
	}

	for _, f := range m.FieldNumbers() {
		def, ok := schema[f]
		if !ok {
			return nil, &EncodingError{Field: f, Reason: "field not in schema"}
		}
		norm, err := normalize(def, m.GetString(f))
		if err != nil {
			return nil, err
		}
		m.Set(f, norm)
	}
	return m, nil
}

// normalize pads, truncates or rejects a value per the field definition.
func normalize(def FieldDef, v string) (string, error) {
	switch def.Enc {
	case Numeric:
		if !allDigits(v) {
			return "", &EncodingError{Field: def.Num, Reason: fmt.Sprintf("%q is not numeric", v)}
		}
		if len(v) > def.Len {
			return "", &EncodingError{Field: def.Num, Reason: fmt.Sprintf("%d digits exceed width %d", len(v), def.Len)}
		}
		return strings.Repeat("0", def.Len-len(v)) + v, nil
	case Date10:
		if len(v) != 10 || !allDigits(v) {
			return "", &EncodingError{Field: def.Num, Reason: "must be 10 digits MMddHHmmss"}
		}
		return v, nil
	case Alpha:
		if len(v) > def.Len {
			return v[:def.Len], nil
		}
		return v + strings.Repeat(" ", def.Len-len(v)), nil
	case Binary:
		if len(v) != def.Len {
			return "", &EncodingError{Field: def.Num, Reason: fmt.Sprintf("binary value must be exactly %d bytes", def.Len)}
		}
		return v, nil
	case LLVar:
		if len(v) > llvarMax {
			return "", &EncodingError{Field: def.Num, Reason: fmt.Sprintf("%d bytes exceed LLVAR maximum", len(v))}
		}
		return v, nil
	case LLLVar:
		if len(v) > lllvarMax {
			return "", &EncodingError{Field: def.Num, Reason: fmt.Sprintf("%d bytes exceed LLLVAR maximum", len(v))}
		}
		return v, nil
	}
	return "", &EncodingError{Field: def.Num, Reason: "unknown encoding"}
}

// Encode serializes a message: [4B MTI ASCII][8B bitmap][16B if secondary][fields...].
// The transport length prefix is not part of the message; framing belongs to
// the transport layer.
func (m *Message) Encode() ([]byte, error) {
	schema := SchemaFor(m.MTI)
	if schema == nil {
		return nil, &EncodingError{Reason: fmt.Sprintf("unsupported MTI %q", m.MTI)}
	}
	if len(m.MTI) != 4 || !allDigits(m.MTI) {
		return nil, &EncodingError{Reason: fmt.Sprintf("invalid MTI %q", m.MTI)}
	}

	var primary, secondary uint64
	for _, f := range m.FieldNumbers() {
		if _, ok := schema[f]; !ok {
			return nil, &EncodingError{Field: f, Reason: "field not in schema"}
		}
		switch {
		case f >= 2 && f <= 64:
			primary |= 1 << (64 - f)
		case f >= 65 && f <= 128:
			secondary |= 1 << (128 - f)
		default:
			return nil, &EncodingError{Field: f, Reason: "field number out of range"}
		}
	}
	if secondary != 0 {
		primary |= 1 << 63 // bit 1 announces the secondary bitmap
	}

	buf := bytes.NewBuffer(nil)
	buf.WriteString(m.MTI)
	var bm [8]byte
	binary.BigEndian.PutUint64(bm[:], primary)
	buf.Write(bm[:])
	if secondary != 0 {
		binary.BigEndian.PutUint64(bm[:], secondary)
		buf.Write(bm[:])
	}

	for _, f := range m.FieldNumbers() {
		def := schema[f]
		v, err := normalize(def, m.GetString(f))
		if err != nil {
			return nil, err
		}
		switch def.Enc {
		case LLVar:
			fmt.Fprintf(buf, "%02d", len(v))
		case LLLVar:
			fmt.Fprintf(buf, "%03d", len(v))
		}
		buf.WriteString(v)
	}
	return buf.Bytes(), nil
}

// Decode parses wire bytes produced by Encode. Fields not announced by the
// bitmap are simply absent, never defaulted.
func Decode(raw []byte) (*Message, error) {
	if len(raw) < 12 {
		return nil, &ParseError{Offset: len(raw), Reason: "too short for MTI and bitmap"}
	}
	mti := string(raw[:4])
	if !allDigits(mti) {
		return nil, &ParseError{Offset: 0, Reason: fmt.Sprintf("invalid MTI %q", mti)}
	}
	schema := SchemaFor(mti)
	if schema == nil {
		return nil, &ParseError{Offset: 0, Reason: fmt.Sprintf("unsupported MTI %q", mti)}
	}

	primary := binary.BigEndian.Uint64(raw[4:12])
	off := 12
	var secondary uint64
	if primary&(1<<63) != 0 {
		if len(raw) < off+8 {
			return nil, &ParseError{Offset: off, Reason: "truncated secondary bitmap"}
		}
		secondary = binary.BigEndian.Uint64(raw[off : off+8])
		off += 8
	}

	present := func(f int) bool {
		if f <= 64 {
			return primary&(1<<(64-f)) != 0
		}
		return secondary&(1<<(128-f)) != 0
	}

	m := New(mti)
	for f := 2; f <= 128; f++ {
		if !present(f) {
			continue
		}
		def, ok := schema[f]
		if !ok {
			return nil, &ParseError{Offset: off, Reason: fmt.Sprintf("field %d not in schema for MTI %s", f, mti)}
		}

		n := def.Len
		switch def.Enc {
		case LLVar, LLLVar:
			prefix := 2
			if def.Enc == LLLVar {
				prefix = 3
			}
			if off+prefix > len(raw) {
				return nil, &ParseError{Offset: off, Reason: fmt.Sprintf("truncated length prefix of field %d", f)}
			}
			p := string(raw[off : off+prefix])
			if !allDigits(p) {
				return nil, &ParseError{Offset: off, Reason: fmt.Sprintf("non-numeric length prefix of field %d", f)}
			}
			n, _ = strconv.Atoi(p)
			off += prefix
		}
		if off+n > len(raw) {
			return nil, &ParseError{Offset: off, Reason: fmt.Sprintf("field %d declares %d bytes, %d remain", f, n, len(raw)-off)}
		}
		m.Set(f, string(raw[off:off+n]))
		off += n
	}
	if off != len(raw) {
		return nil, &ParseError{Offset: off, Reason: fmt.Sprintf("%d trailing bytes after last field", len(raw)-off)}
	}
	return m, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
