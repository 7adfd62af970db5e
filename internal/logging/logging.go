// Package logging carries the teacher's custom slog.Handler (logging.go)
// into a shared library package, since this repo's entrypoint is a
// planner library plus a thin demo binary rather than a single main.
package logging

import (
	"context"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
)

// Handler is a mutex-guarded text handler writing "time level message attrs"
// lines, identical in shape to the teacher's LogHandler.
type Handler struct {
	h   slog.Handler
	mu  *sync.Mutex
	out io.Writer
}

// New builds a Handler writing to out. opts may be nil.
func New(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		out: out,
		h: slog.NewTextHandler(out, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		}),
		mu: &sync.Mutex{},
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), out: h.out, mu: h.mu}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{formattedTime, r.Level.String(), r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}

	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(b)
	return err
}

// Logger wraps *slog.Logger, satisfying the narrow Logger interfaces that
// oracle and planner declare (Warn, and Info for planner) without those
// packages importing slog directly.
type Logger struct {
	*slog.Logger
}

// NewLogger builds a Logger over a Handler writing to out.
func NewLogger(out io.Writer, opts *slog.HandlerOptions) *Logger {
	return &Logger{Logger: slog.New(New(out, opts))}
}
