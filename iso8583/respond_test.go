// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.
package iso8583

import (
	"testing"
	"time"
)

func TestResponseMTI(t *testing.T) {
	got, err := ResponseMTI("0200")
	if err != nil {
		t.Fatalf("ResponseMTI failed: %v", err)
	}
	if got != "0210" {
		t.Errorf("got %q, want 0210", got)
	}

	if _, err := ResponseMTI("02"); err == nil {
		t.Error("short MTI must fail")
	}
	if _, err := ResponseMTI("02XX"); err == nil {
		t.Error("non-numeric MTI must fail")
	}
}

func TestNewResponseFromRequest_CopiesSharedFields(t *testing.T) {
	req, err := Build(MTIFinancialRequest, map[int]string{
		FieldPAN:          "1234567890123456",
		FieldAmount:       "000000001500",
		FieldTransmission: "0829131500",
		FieldSTAN:         "000042",
		FieldTerminalID:   "TERM01",
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Response-owned fields on a request must not leak into the response.
	req.Set(FieldResponseCode, "00")
	req.Set(FieldMessage, "should not be copied")

	resp := NewResponseFromRequest(req, MTIFinancialResponse)
	if resp.MTI != MTIFinancialResponse {
		t.Fatalf("wrong MTI: %q", resp.MTI)
	}

	for _, f := range []int{FieldPAN, FieldProcessing, FieldAmount, FieldTransmission, FieldSTAN, FieldTerminalID, FieldCurrency} {
		if resp.GetString(f) != req.GetString(f) {
			t.Errorf("field %d: got %q, want %q", f, resp.GetString(f), req.GetString(f))
		}
	}
	for _, f := range []int{FieldApprovalCode, FieldResponseCode, FieldMessage, FieldAddlAmounts} {
		if resp.Has(f) {
			t.Errorf("response-only field %d must not be copied", f)
		}
	}
}

func TestNewResponseFromRequest_NilRequest(t *testing.T) {
	resp := NewResponseFromRequest(nil, MTIFormatError)
	if resp.MTI != MTIFormatError {
		t.Fatalf("wrong MTI: %q", resp.MTI)
	}
	if len(resp.FieldNumbers()) != 0 {
		t.Errorf("expected empty message, got fields %v", resp.FieldNumbers())
	}
}

func TestNewFinancialRequest(t *testing.T) {
	now := time.Date(2026, 8, 29, 13, 15, 0, 0, time.UTC)
	m, err := NewFinancialRequest("1234567890123456", 1500, "TERM01", "000007", now)
	if err != nil {
		t.Fatalf("NewFinancialRequest failed: %v", err)
	}
	if got := m.GetString(FieldAmount); got != "000000001500" {
		t.Errorf("amount: %q", got)
	}
	if got := m.GetString(FieldTransmission); got != "0829131500" {
		t.Errorf("transmission date/time: %q", got)
	}
	if got := m.GetString(FieldLocalDate); got != "0829" {
		t.Errorf("local date: %q", got)
	}
	if got := m.GetString(FieldSTAN); got != "000007" {
		t.Errorf("STAN: %q", got)
	}

	if _, err := NewFinancialRequest("1234567890123456", -1, "TERM01", "000007", now); err == nil {
		t.Error("negative amount must fail")
	}
}
