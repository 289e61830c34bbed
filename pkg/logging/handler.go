// Package logging adapts the printf-style core.Logger sink to log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jba/slog/withsupport"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// StdoutLogger implements core.Logger by writing to stdout
type StdoutLogger struct{}

// Printf writes one formatted line to stdout
func (StdoutLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// Handler formats records as single "LEVEL message key=value" lines and
// writes them through a core.Logger
type Handler struct {
	out  core.Logger
	opts slog.HandlerOptions
	with *withsupport.GroupOrAttrs
	mu   *sync.Mutex
}

// NewHandler creates a handler writing to out. A nil out writes to stdout and
// nil opts log at info level.
func NewHandler(out core.Logger, opts *slog.HandlerOptions) *Handler {
	if out == nil {
		out = StdoutLogger{}
	}
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// New returns a logger backed by a Handler at the given level
func New(out core.Logger, level slog.Leveler) *slog.Logger {
	return slog.New(NewHandler(out, &slog.HandlerOptions{Level: level}))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, opts: h.opts, with: h.with.WithGroup(name), mu: h.mu}
}

func (h *Handler) WithAttrs(as []slog.Attr) slog.Handler {
	return &Handler{out: h.out, opts: h.opts, with: h.with.WithAttrs(as), mu: h.mu}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if ts := h.timestamp(r.Time); ts != "" {
		b.WriteString(ts)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", r.Level.String(), r.Message)

	groups := h.with.Apply(func(groups []string, a slog.Attr) {
		h.appendAttr(&b, groups, a)
	})
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, groups, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	h.out.Printf("%s", b.String())
	return nil
}

func (h *Handler) timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	a := slog.Time(slog.TimeKey, t)
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
		if a.Equal(slog.Attr{}) {
			return ""
		}
	}
	if a.Value.Kind() == slog.KindTime {
		return a.Value.Time().Format(time.TimeOnly)
	}
	return a.Value.String()
}

func (h *Handler) appendAttr(b *strings.Builder, groups []string, a slog.Attr) {
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
	}
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, groups, ga)
		}
		return
	}

	b.WriteByte(' ')
	for _, g := range groups {
		b.WriteString(g)
		b.WriteByte('.')
	}
	b.WriteString(a.Key)
	b.WriteByte('=')
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if s == "" || strings.ContainsAny(s, " =\"") {
			fmt.Fprintf(b, "%q", s)
		} else {
			b.WriteString(s)
		}
	case slog.KindTime:
		b.WriteString(a.Value.Time().Format(time.RFC3339))
	default:
		b.WriteString(a.Value.String())
	}
}

// WriterLogger implements core.Logger on top of an io.Writer
type WriterLogger struct {
	W io.Writer
}

// Printf writes one formatted line to W
func (l WriterLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.W, format, args...)
}
