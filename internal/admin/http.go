// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

// Package admin serves the ops HTTP surface: health and Prometheus
// metrics. It is separate from the terminal-facing TCP listener.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Serve starts the admin listener in the background and returns the server
// so the caller can shut it down.
func Serve(addr string) *http.Server {
	started := time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"uptime": time.Since(started).String(),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{Addr: addr, Handler: mux}
	go func() {
		slog.Info("admin listening", "addr", addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("admin server error", "err", err)
		}
	}()
	return s
}
