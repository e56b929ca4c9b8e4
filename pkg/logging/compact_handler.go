package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fatih/color"
)

// CompactHandler formats logs in a compact, readable format for console output
// Format: [LEVEL] HH:MM:SS message | key=value key=value
type CompactHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	out   io.Writer
	attrs []slog.Attr // accumulated attributes from WithAttrs
	group string      // current group name from WithGroup
}

var levelTags = map[slog.Level]string{
	LevelTrace:      color.New(color.Faint).Sprint("[TRACE]"),
	slog.LevelDebug: color.New(color.FgCyan).Sprint("[DEBUG]"),
	slog.LevelInfo:  color.New(color.FgGreen).Sprint("[INFO] "),
	slog.LevelWarn:  color.New(color.FgYellow).Sprint("[WARN] "),
	slog.LevelError: color.New(color.FgRed, color.Bold).Sprint("[ERROR]"),
}

// NewCompactHandler creates a new compact console handler
func NewCompactHandler(w io.Writer, opts *slog.HandlerOptions) *CompactHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &CompactHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		out:  w,
	}
}

func (h *CompactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *CompactHandler) Handle(ctx context.Context, r slog.Record) error {
	buf := make([]byte, 0, 1024)

	if tag, ok := levelTags[r.Level]; ok {
		buf = append(buf, tag...)
	} else {
		buf = append(buf, fmt.Sprintf("[%-5s]", r.Level.String())...)
	}
	buf = append(buf, ' ')

	// Time (just HH:MM:SS for readability)
	buf = append(buf, r.Time.Format("15:04:05")...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	first := true
	emit := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		if first {
			buf = append(buf, " |"...)
			first = false
		}
		buf = append(buf, ' ')
		buf = h.appendAttr(buf, a)
	}
	// accumulated attrs already carry the group they were added under
	for _, a := range h.attrs {
		emit(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		emit(h.grouped(a))
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *CompactHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	switch a.Key {
	case "requestID":
		// Shorten request IDs to first 8 chars
		if s, ok := a.Value.Any().(string); ok && len(s) > 8 {
			buf = append(buf, "req="...)
			return append(buf, s[:8]...)
		}
	case "durationMs":
		buf = append(buf, "duration="...)
		buf = append(buf, a.Value.String()...)
		return append(buf, "ms"...)
	case "error":
		buf = append(buf, "error="...)
		return append(buf, fmt.Sprintf("%q", a.Value.Any())...)
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			return append(buf, fmt.Sprintf("%q", s)...)
		}
		return append(buf, s...)
	case slog.KindInt64:
		return append(buf, fmt.Sprintf("%d", v.Int64())...)
	case slog.KindUint64:
		return append(buf, fmt.Sprintf("%d", v.Uint64())...)
	case slog.KindFloat64:
		return append(buf, fmt.Sprintf("%g", v.Float64())...)
	case slog.KindBool:
		return append(buf, fmt.Sprintf("%t", v.Bool())...)
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return append(buf, v.Time().Format(time.RFC3339)...)
	default:
		return append(buf, fmt.Sprintf("%v", v.Any())...)
	}
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' || r == '=' {
			return true
		}
	}
	return false
}

func (h *CompactHandler) grouped(a slog.Attr) slog.Attr {
	if h.group != "" {
		a.Key = h.group + "." + a.Key
	}
	return a
}

func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		merged = append(merged, h.grouped(a))
	}
	return &CompactHandler{
		opts:  h.opts,
		mu:    h.mu,
		out:   h.out,
		attrs: merged,
		group: h.group,
	}
}

func (h *CompactHandler) WithGroup(name string) slog.Handler {
	if h.group != "" {
		name = h.group + "." + name
	}
	return &CompactHandler{
		opts:  h.opts,
		mu:    h.mu,
		out:   h.out,
		attrs: h.attrs,
		group: name,
	}
}
