// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package convert maps between ISO8583 messages and the JSON payloads of
// the ESB transaction endpoint.
package convert

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pridebank/atm-gateway/internal/respcode"
	"github.com/pridebank/atm-gateway/iso8583"
)

const (
	maxMessageLen = 25
	panMaskToken  = "****"
)

// Request is the JSON body sent to the ESB for one financial transaction.
// Fields absent from the ISO message are omitted, never defaulted.
type Request struct {
	MessageType          string           `json:"messageType"`
	CardNumber           string           `json:"cardNumber,omitempty"` // masked PAN
	AccountNumber        string           `json:"accountNumber,omitempty"`
	ProcessingCode       string           `json:"processingCode,omitempty"`
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	AmountMinor          string           `json:"amountMinor,omitempty"`
	TransmissionDateTime string           `json:"transmissionDateTime,omitempty"`
	Stan                 string           `json:"stan,omitempty"`
	TerminalID           string           `json:"terminalId,omitempty"`
	CurrencyCode         string           `json:"currencyCode,omitempty"`
}

// Response is the JSON body the ESB answers with.
type Response struct {
	ResponseCode      string           `json:"responseCode,omitempty"`
	Message           string           `json:"message,omitempty"`
	AuthorizationCode string           `json:"authorizationCode,omitempty"`
	AvailableBalance  *decimal.Decimal `json:"availableBalance,omitempty"`
	LedgerBalance     *decimal.Decimal `json:"ledgerBalance,omitempty"`
	Stan              string           `json:"stan,omitempty"`
	TransactionID     string           `json:"transactionId,omitempty"`
}

// ToRequest extracts the present fields of a financial request into the
// ESB JSON shape. The PAN travels in full plus a masked variant; the amount
// travels both as minor units and as a 2-fraction-digit decimal.
func ToRequest(m *iso8583.Message) (*Request, error) {
	req := &Request{MessageType: m.MTI}

	if pan, ok := m.Get(iso8583.FieldPAN); ok {
		req.CardNumber = MaskPAN(pan)
		req.AccountNumber = pan
	}
	if v, ok := m.Get(iso8583.FieldProcessing); ok {
		req.ProcessingCode = v
	}
	if v, ok := m.Get(iso8583.FieldAmount); ok {
		minor, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("convert: field 4 %q is not an amount: %w", v, err)
		}
		major := minor.Div(decimal.NewFromInt(100)).Round(2)
		req.Amount = &major
		req.AmountMinor = v
	}
	if v, ok := m.Get(iso8583.FieldTransmission); ok {
		req.TransmissionDateTime = v
	}
	if v, ok := m.Get(iso8583.FieldSTAN); ok {
		req.Stan = v
	}
	if v, ok := m.Get(iso8583.FieldTerminalID); ok {
		req.TerminalID = strings.TrimSpace(v)
	}
	if v, ok := m.Get(iso8583.FieldCurrency); ok {
		req.CurrencyCode = v
	}
	return req, nil
}

// FromResponse builds the ISO response for the original request from the
// ESB reply: response MTI derived from the request, shared fields echoed,
// approval code padded to 6, ESB outcome key mapped into field 39, balance
// converted to minor units into field 54, message truncated into field 44.
func FromResponse(esb *Response, request *iso8583.Message) (*iso8583.Message, error) {
	respMTI, err := iso8583.ResponseMTI(request.MTI)
	if err != nil {
		return nil, err
	}
	resp := iso8583.NewResponseFromRequest(request, respMTI)

	if esb.AuthorizationCode != "" {
		code := fmt.Sprintf("%-6s", esb.AuthorizationCode)
		resp.Set(iso8583.FieldApprovalCode, code[:6])
	}

	resp.Set(iso8583.FieldResponseCode, respcode.Map(esb.ResponseCode))

	if esb.AvailableBalance != nil {
		minor := esb.AvailableBalance.Mul(decimal.NewFromInt(100)).IntPart()
		resp.Set(iso8583.FieldAddlAmounts, fmt.Sprintf("%012d", minor))
	}

	if esb.Message != "" {
		resp.Set(iso8583.FieldMessage, Truncate(esb.Message, maxMessageLen))
	}
	return resp, nil
}

// MaskPAN keeps the first 6 and last 4 digits. A PAN too short to mask that
// way collapses to a fixed token.
func MaskPAN(pan string) string {
	if len(pan) < 13 {
		return panMaskToken
	}
	return pan[:6] + "******" + pan[len(pan)-4:]
}

// Truncate bounds a free-text value to n bytes.
func Truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
