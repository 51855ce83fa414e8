// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package validate checks parsed financial requests before they enter the
// processing pipeline. A failed validation is a normal outcome, not an
// error: the caller turns the result into a 0231 response.
package validate

import (
	"fmt"
	"strings"

	"github.com/pridebank/atm-gateway/iso8583"
)

// requiredFields must all be present on a financial request.
var requiredFields = []int{
	iso8583.FieldPAN,
	iso8583.FieldProcessing,
	iso8583.FieldAmount,
	iso8583.FieldTransmission,
	iso8583.FieldSTAN,
	iso8583.FieldTerminalID,
	iso8583.FieldCurrency,
}

// Result accumulates every violation found; it never short-circuits.
type Result struct {
	Errors []string
}

// Valid reports whether the request passed all checks.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Summary joins all violations into one terminal-displayable line.
func (r Result) Summary() string { return strings.Join(r.Errors, "; ") }

// FinancialRequest validates a parsed 0200 message: MTI, required field
// presence, then field-level formats.
func FinancialRequest(m *iso8583.Message) Result {
	var r Result
	if m == nil {
		r.Errors = append(r.Errors, "Empty request")
		return r
	}

	if m.MTI != iso8583.MTIFinancialRequest {
		r.Errors = append(r.Errors, "MTI must be 0200")
	}

	for _, f := range requiredFields {
		if !m.Has(f) {
			r.Errors = append(r.Errors, fmt.Sprintf("Missing field %d", f))
		}
	}

	if m.Has(iso8583.FieldPAN) {
		pan := strings.TrimSpace(m.GetString(iso8583.FieldPAN))
		if len(pan) < 13 || len(pan) > 19 || !digits(pan) {
			r.Errors = append(r.Errors, "Field 2 PAN invalid")
		}
	}
	if m.Has(iso8583.FieldProcessing) && !digitsN(m.GetString(iso8583.FieldProcessing), 6) {
		r.Errors = append(r.Errors, "Field 3 must be 6 numeric")
	}
	if m.Has(iso8583.FieldAmount) && !digitsN(m.GetString(iso8583.FieldAmount), 12) {
		r.Errors = append(r.Errors, "Field 4 must be 12 numeric (minor units)")
	}
	if m.Has(iso8583.FieldTransmission) && !digitsN(m.GetString(iso8583.FieldTransmission), 10) {
		r.Errors = append(r.Errors, "Field 7 must be MMddHHmmss")
	}
	if m.Has(iso8583.FieldSTAN) && !digitsN(m.GetString(iso8583.FieldSTAN), 6) {
		r.Errors = append(r.Errors, "Field 11 must be 6 numeric")
	}
	if m.Has(iso8583.FieldTerminalID) && strings.TrimSpace(m.GetString(iso8583.FieldTerminalID)) == "" {
		r.Errors = append(r.Errors, "Field 41 terminalId required")
	}
	if m.Has(iso8583.FieldCurrency) && !digitsN(m.GetString(iso8583.FieldCurrency), 3) {
		r.Errors = append(r.Errors, "Field 49 must be 3 numeric")
	}

	return r
}

func digits(s string) bool {
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

func digitsN(s string, n int) bool { return len(s) == n && digits(s) }
