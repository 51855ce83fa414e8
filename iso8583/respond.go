// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package iso8583

import (
	"fmt"
	"strconv"
)

// ResponseMTI derives the paired response MTI for a request: 0200 -> 0210.
// Format failures do not go through here; they always answer with
// MTIFormatError regardless of the request MTI.
func ResponseMTI(requestMTI string) (string, error) {
	if len(requestMTI) != 4 || !allDigits(requestMTI) {
		return "", fmt.Errorf("iso8583: cannot derive response MTI from %q", requestMTI)
	}
	n, _ := strconv.Atoi(requestMTI)
	return fmt.Sprintf("%04d", n+10), nil
}

// NewResponseFromRequest creates a response message of the given MTI with
// every schema field of the request copied over, except the response-owned
// fields (approval code, response code, message text, additional amounts).
// The copy is a set difference over the schema table, not a numeric range
// scan. A nil request yields an empty message of the response MTI.
func NewResponseFromRequest(req *Message, responseMTI string) *Message {
	resp := New(responseMTI)
	if req == nil {
		return resp
	}
	for f := range baseSchema {
		if responseOnly[f] {
			continue
		}
		if v, ok := req.Get(f); ok {
			resp.Set(f, v)
		}
	}
	return resp
}
