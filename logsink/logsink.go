// Package logsink provides a slog.Handler that forwards records to a wrapped
// handler and keeps a bounded tail of formatted lines for display surfaces.
package logsink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const defaultCapacity = 256

// Buffer is a bounded, mutex-guarded ring of formatted log lines. Writers
// append; a single reader drains pending lines with Drain.
type Buffer struct {
	mu      sync.Mutex
	lines   []string
	cap     int
	dropped uint64
}

// NewBuffer returns a Buffer holding at most capacity undrained lines.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{cap: capacity}
}

func (b *Buffer) push(line string) {
	b.mu.Lock()
	if len(b.lines) >= b.cap {
		b.lines = b.lines[1:]
		b.dropped++
	}
	b.lines = append(b.lines, line)
	b.mu.Unlock()
}

// Drain returns and clears the pending lines.
func (b *Buffer) Drain() []string {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return nil
	}
	out := b.lines
	b.lines = nil
	return out
}

// Dropped reports how many lines were discarded because the buffer was full.
func (b *Buffer) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Handler tees records to next and to a Buffer.
type Handler struct {
	next  slog.Handler
	buf   *Buffer
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler wraps next. Records at or above level are also formatted into buf.
func NewHandler(next slog.Handler, buf *Buffer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{next: next, buf: buf, level: level}
}

func (h *Handler) Enabled(ctx context.Context, l slog.Level) bool {
	if l >= h.level.Level() && h.buf != nil {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, l)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if h.buf != nil && r.Level >= h.level.Level() {
		h.buf.push(h.format(r))
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		c.next = h.next.WithAttrs(attrs)
	}
	return &c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	c := *h
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	if h.next != nil {
		c.next = h.next.WithGroup(name)
	}
	return &c
}

// format renders "15:04:05 LEVEL msg key=value ...".
func (h *Handler) format(r slog.Record) string {
	var sb strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	sb.WriteString(ts.Format("15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(r.Level.String())
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	write := func(a slog.Attr) {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, a.Value.Any())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})
	return sb.String()
}
