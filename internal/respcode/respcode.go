// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package respcode translates ESB outcome keys into the two-digit ISO8583
// response codes the terminal network expects.
package respcode

// ISO response codes written into field 39.
const (
	ISOSuccess     = "00"
	ISOFormatError = "30"
	ISOSystemError = "96"
)

// ESB outcome keys.
const (
	Success           = "SUCCESS"
	InsufficientFunds = "INSUFFICIENT_FUNDS"
	InvalidAccount    = "INVALID_ACCOUNT"
	InvalidPIN        = "INVALID_PIN"
	LimitExceeded     = "LIMIT_EXCEEDED"
	Timeout           = "TIMEOUT"
	SystemError       = "SYSTEM_ERROR"
)

var esbToISO = map[string]string{
	Success:           ISOSuccess,
	InsufficientFunds: "51",
	InvalidAccount:    "14",
	InvalidPIN:        "55",
	LimitExceeded:     "61",
	Timeout:           "68",
	SystemError:       ISOSystemError,
}

// Map returns the ISO code for an ESB outcome key. Unknown or blank keys
// map to the SYSTEM_ERROR code.
func Map(esbCode string) string {
	if iso, ok := esbToISO[esbCode]; ok {
		return iso
	}
	return ISOSystemError
}
