// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// termsim plays the terminal side of the wire protocol: it builds 0200
// financial requests and prints the gateway's responses. Useful as a smoke
// probe against a running gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/pridebank/atm-gateway/internal/stan"
	"github.com/pridebank/atm-gateway/iso8583"
	"github.com/pridebank/atm-gateway/transport/tcp"
)

func main() {
	var (
		addr       = pflag.StringP("addr", "a", "127.0.0.1:7790", "gateway address")
		pan        = pflag.String("pan", "1234567890123456", "card number")
		amount     = pflag.Int64("amount", 1500, "amount in minor units")
		terminalID = pflag.StringP("terminal", "t", "TERM01", "terminal id")
		count      = pflag.IntP("count", "n", 1, "number of requests to send")
		timeout    = pflag.Duration("timeout", 10*time.Second, "per-request timeout")
	)
	pflag.Parse()

	gen := stan.NewGenerator()
	client := tcp.NewClient(*addr)
	client.Timeout = *timeout

	for i := 0; i < *count; i++ {
		request, err := iso8583.NewFinancialRequest(*pan, *amount, *terminalID, gen.NextForTerminal(*terminalID), time.Now())
		if err != nil {
			fmt.Printf("failed to build request: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		response, err := client.Send(ctx, request)
		cancel()
		if err != nil {
			fmt.Printf("request failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s -> %s\n", request.MTI, response.MTI)
		for _, f := range response.FieldNumbers() {
			fmt.Printf("  DE%03d = %q\n", f, response.GetString(f))
		}
	}
}
