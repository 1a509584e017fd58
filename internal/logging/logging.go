// Package logging provides gosh's startup and diagnostic logger: a small
// slog.Handler that colors each level the way the rest of this module's
// lineage colors its structured logs (cyan debug, blue info, yellow warn,
// red error), built on fatih/color rather than hand-rolled ANSI codes.
//
// This is deliberately separate from the per-command stdout/stderr the
// Pipeline Executor captures (pkg/shell) — it exists for the handful of
// diagnostics that happen outside any command in internal/shell.Run:
// readline initialization failure, and history or snapshot file failures
// at startup and shutdown.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
)

// Handler is a minimal slog.Handler that writes "TIME LEVEL message
// key=value..." lines, coloring the level label.
type Handler struct {
	w      io.Writer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

// New builds a *slog.Logger writing to w at the given minimum level.
// Colorization follows color.NoColor, which fatih/color itself derives from
// whether os.Stdout is a terminal, not from w; callers that need to force it
// off (e.g. when w is a file) can set color.NoColor = true before calling New.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(&Handler{w: w, level: level})
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	label := levelColor(r.Level).Sprint(r.Level.String())
	line := fmt.Sprintf("%s %s %s", r.Time.Format(time.TimeOnly), label, r.Message)

	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgCyan)
	}
}
