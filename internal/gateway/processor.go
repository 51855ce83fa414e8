// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package gateway turns one parsed ISO8583 request into one response,
// orchestrating validation, conversion and the ESB call.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/pridebank/atm-gateway/internal/convert"
	"github.com/pridebank/atm-gateway/internal/metrics"
	"github.com/pridebank/atm-gateway/internal/respcode"
	"github.com/pridebank/atm-gateway/internal/validate"
	"github.com/pridebank/atm-gateway/iso8583"
)

const systemErrorMessage = "System error"

// Sender is the outbound collaborator contract: one synchronous JSON call
// to the ESB. Transport and timeout failures surface as errors; they are
// never retried here.
type Sender interface {
	Send(ctx context.Context, req *convert.Request) (*convert.Response, error)
}

// Processor owns the per-request pipeline and all error-response
// construction. Process always returns a structurally valid response;
// no failure propagates to the transport layer.
type Processor struct {
	esb Sender
}

// NewProcessor creates a Processor backed by the given ESB sender.
func NewProcessor(esb Sender) *Processor {
	return &Processor{esb: esb}
}

// Process validates the request, forwards it to the ESB and maps the reply
// back onto an ISO response. Validation failures answer with a 0231/30;
// every other failure collapses into the generic 96 response.
func (p *Processor) Process(ctx context.Context, request *iso8583.Message) *iso8583.Message {
	start := time.Now()
	defer func() { metrics.ProcessingDuration.Observe(time.Since(start).Seconds()) }()

	stan := "unknown"
	if request != nil && request.Has(iso8583.FieldSTAN) {
		stan = request.GetString(iso8583.FieldSTAN)
	}

	vr := validate.FinancialRequest(request)
	if !vr.Valid() {
		slog.Warn("request validation failed", "stan", stan, "errors", vr.Summary())
		metrics.ValidationFailures.Inc()
		return p.finish(p.ErrorResponse(request, respcode.ISOFormatError, vr.Summary()))
	}

	jsonReq, err := convert.ToRequest(request)
	if err != nil {
		slog.Error("request conversion failed", "stan", stan, "err", err)
		return p.finish(p.ErrorResponse(request, respcode.ISOSystemError, systemErrorMessage))
	}

	jsonResp, err := p.esb.Send(ctx, jsonReq)
	if err != nil {
		slog.Error("ESB call failed", "stan", stan, "err", err)
		metrics.EsbFailures.Inc()
		return p.finish(p.ErrorResponse(request, respcode.ISOSystemError, systemErrorMessage))
	}

	response, err := convert.FromResponse(jsonResp, request)
	if err != nil {
		slog.Error("response conversion failed", "stan", stan, "err", err)
		return p.finish(p.ErrorResponse(request, respcode.ISOSystemError, systemErrorMessage))
	}

	return p.finish(response)
}

// ErrorResponse builds a well-formed error reply. Format errors (code 30)
// always answer with MTI 0231, falling back to the empty template when the
// request never parsed. Other codes derive the response MTI from the
// request, or synthesize a bare 0210 when there is no request to derive
// from.
func (p *Processor) ErrorResponse(request *iso8583.Message, code, message string) *iso8583.Message {
	if code == "" {
		code = respcode.ISOSystemError
	}
	message = convert.Truncate(message, 25)

	var resp *iso8583.Message
	switch {
	case code == respcode.ISOFormatError:
		resp = iso8583.NewResponseFromRequest(request, iso8583.MTIFormatError)
	case request == nil:
		resp = iso8583.New(iso8583.MTIFinancialResponse)
	default:
		mti, err := iso8583.ResponseMTI(request.MTI)
		if err != nil {
			// MTI derivation impossible; the format-error MTI is the only
			// structurally safe answer left.
			mti = iso8583.MTIFormatError
		}
		resp = iso8583.NewResponseFromRequest(request, mti)
	}

	resp.Set(iso8583.FieldResponseCode, code)
	if message != "" {
		resp.Set(iso8583.FieldMessage, message)
	}
	return resp
}

func (p *Processor) finish(resp *iso8583.Message) *iso8583.Message {
	metrics.TransactionsTotal.WithLabelValues(resp.GetString(iso8583.FieldResponseCode)).Inc()
	return resp
}
