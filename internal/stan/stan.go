// Copyright (c) 2025 Li Jinling. All rights reserved.
// This software may be modified and distributed under the terms
// of the BSD-3 Clause License. See the LICENSE file for details.

package stan

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	minSTAN = 1
	maxSTAN = 999999
)

// Generator produces 6-digit System Trace Audit Numbers: one global
// sequence and one lazily created sequence per terminal. All counters live
// in [1, 999999], wrap to 1 after 999999, and reset to 1 at the first use
// after a calendar-day boundary in UTC. One mutex guards both the daily
// reset check and the increments so the two stay atomic.
type Generator struct {
	mu        sync.Mutex
	global    int
	terminals map[string]int
	lastReset time.Time // date only, UTC

	now func() time.Time
}

// NewGenerator creates a Generator using the wall clock.
func NewGenerator() *Generator {
	return newGenerator(time.Now)
}

func newGenerator(now func() time.Time) *Generator {
	g := &Generator{
		global:    minSTAN,
		terminals: make(map[string]int),
		now:       now,
	}
	g.lastReset = dateOf(now())
	return g
}

// Next returns the next value of the global sequence.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.checkDailyReset()
	v := g.global
	g.global++
	if g.global > maxSTAN {
		g.global = minSTAN
	}
	return format(v)
}

// NextForTerminal returns the next value of the terminal's own sequence,
// creating it at 1 on first use.
func (g *Generator) NextForTerminal(terminalID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.checkDailyReset()
	v, ok := g.terminals[terminalID]
	if !ok {
		v = minSTAN
	}
	next := v + 1
	if next > maxSTAN {
		next = minSTAN
	}
	g.terminals[terminalID] = next
	return format(v)
}

// checkDailyReset must run under g.mu.
func (g *Generator) checkDailyReset() {
	today := dateOf(g.now())
	if !today.Equal(g.lastReset) {
		g.global = minSTAN
		g.terminals = make(map[string]int)
		g.lastReset = today
		slog.Info("STAN counters reset", "date", today.Format(time.DateOnly))
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func format(v int) string { return fmt.Sprintf("%06d", v) }
