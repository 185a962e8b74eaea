package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// palette holds the colors used by Handler. The zero palette writes plain
// text.
type palette struct {
	time  *color.Color
	key   *color.Color
	err   *color.Color
	level map[string]*color.Color
}

func newPalette() palette {
	return palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		err:  color.New(color.FgRed),
		level: map[string]*color.Color{
			"TRACE": color.New(color.FgHiBlack),
			"DEBUG": color.New(color.FgMagenta),
			"INFO":  color.New(color.FgGreen),
			"WARN":  color.New(color.FgYellow),
			"ERROR": color.New(color.FgRed, color.Bold),
		},
	}
}

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// Handler writes one line per record:
//
//	15:04:05 INFO  backup complete destination="/b/site - 03072024-09.05" files=12
//
// Values containing spaces are quoted, since backup folder names always
// contain them.
type Handler struct {
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	colors palette

	// preformatted holds " key=value" text from WithAttrs.
	preformatted string
	prefix       string
}

// NewHandler returns a Handler writing to out. Colors are used when out
// supports them.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether level is at or above the handler's minimum.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle renders r and writes it in a single call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		sb.WriteString(paint(h.colors.time, r.Time.Format("15:04:05")))
		sb.WriteByte(' ')
	}

	name := levelName(r.Level)
	sb.WriteString(paint(h.colors.level[name], fmt.Sprintf("%-5s", name)))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.preformatted)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs renders attrs once and appends them to every later record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	sb.WriteString(h.preformatted)
	for _, a := range attrs {
		h.writeAttr(&sb, h.prefix, a)
	}
	next := *h
	next.preformatted = sb.String()
	return &next
}

// WithGroup qualifies later keys as name.key.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *Handler) writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(sb, prefix, ga)
		}
		return
	}

	val := formatValue(a.Value)
	if _, isErr := a.Value.Any().(error); isErr {
		val = paint(h.colors.err, val)
	}
	fmt.Fprintf(sb, " %s=%s", paint(h.colors.key, prefix+a.Key), val)
}

func formatValue(v slog.Value) string {
	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	case l >= slog.LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}
