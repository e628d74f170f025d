package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the level styles used by the console handler.
type Theme struct {
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Attr  lipgloss.Style
}

// DefaultTheme is the default color scheme.
var DefaultTheme = Theme{
	Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Info:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")),
	Warn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("221")),
	Error: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	Attr:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// ConsoleOptions configures a ConsoleHandler.
type ConsoleOptions struct {
	Level   slog.Leveler
	NoColor bool
	Theme   *Theme
}

// ConsoleHandler is a slog.Handler producing short human-oriented lines:
//
//	WARN  CPD found duplicate code. See the report at build/cpd.xml
//
// Attributes are appended as key=value pairs in a dimmed style.
type ConsoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	opts  ConsoleOptions
	theme Theme
	attrs []slog.Attr
	group string
}

// NewConsoleHandler returns a handler writing to w.
func NewConsoleHandler(w io.Writer, opts *ConsoleOptions) *ConsoleHandler {
	h := &ConsoleHandler{mu: &sync.Mutex{}, w: w, theme: DefaultTheme}
	if opts != nil {
		h.opts = *opts
		if opts.Theme != nil {
			h.theme = *opts.Theme
		}
	}
	return h
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.paint(h.levelStyle(r.Level), fmt.Sprintf("%-5s", r.Level.String())))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	var pairs []string
	for _, a := range h.attrs {
		pairs = appendAttr(pairs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		pairs = appendAttr(pairs, h.group, a)
		return true
	})
	if len(pairs) > 0 {
		sb.WriteString(" ")
		sb.WriteString(h.paint(h.theme.Attr, strings.Join(pairs, " ")))
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if nh.group != "" {
		nh.group += "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func (h *ConsoleHandler) levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return h.theme.Error
	case level >= slog.LevelWarn:
		return h.theme.Warn
	case level >= slog.LevelInfo:
		return h.theme.Info
	default:
		return h.theme.Debug
	}
}

func (h *ConsoleHandler) paint(style lipgloss.Style, s string) string {
	if h.opts.NoColor {
		return s
	}
	return style.Render(s)
}

func appendAttr(pairs []string, group string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return pairs
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			pairs = appendAttr(pairs, key, ga)
		}
		return pairs
	}
	return append(pairs, key+"="+a.Value.String())
}

var _ slog.Handler = (*ConsoleHandler)(nil)
