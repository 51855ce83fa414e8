// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package esb is the outbound HTTP client to the back-end transaction
// service. It is plumbing: one POST, basic auth, a timeout, no retries.
package esb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pridebank/atm-gateway/internal/config"
	"github.com/pridebank/atm-gateway/internal/convert"
)

// Client posts JSON transaction requests to the ESB charge endpoint.
type Client struct {
	url      string
	username string
	password string
	http     *http.Client
}

// NewClient creates a Client from the ESB config section.
func NewClient(cfg config.EsbConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:      cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
	}
}

// Send performs one synchronous call. Transport failures, timeouts and
// non-2xx statuses all surface as errors; the processor maps them onto the
// generic system-error response.
func (c *Client) Send(ctx context.Context, req *convert.Request) (*convert.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("esb: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("esb: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.username, c.password)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("esb: call failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		io.Copy(io.Discard, httpResp.Body)
		return nil, fmt.Errorf("esb: unexpected status %d", httpResp.StatusCode)
	}

	var resp convert.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("esb: failed to decode response: %w", err)
	}
	return &resp, nil
}
