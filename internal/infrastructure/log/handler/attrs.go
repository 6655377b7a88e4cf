package handler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
)

// WithContextAttrs 包装处理器，在每条记录上追加从 context 提取的属性
func WithContextAttrs(h slog.Handler, extract func(context.Context) []slog.Attr) slog.Handler {
	if extract == nil {
		return h
	}
	return &contextHandler{next: h, extract: extract}
}

type contextHandler struct {
	next    slog.Handler
	extract func(context.Context) []slog.Attr
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := h.extract(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extract: h.extract}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extract: h.extract}
}

func enabled(opts *slog.HandlerOptions, level slog.Level) bool {
	if opts == nil || opts.Level == nil {
		return level >= slog.LevelInfo
	}
	return level >= opts.Level.Level()
}

func groupPrefix(prefix, name string) string {
	if name == "" {
		return prefix
	}
	return prefix + name + "."
}

// appendAttrs 复制已有属性并追加新属性，分组属性展开为 a.b 形式
func appendAttrs(existing []slog.Attr, prefix string, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(existing)+len(attrs))
	out = append(out, existing...)
	for _, a := range attrs {
		out = flatten(out, prefix, a)
	}
	return out
}

// collectAttrs 合并处理器上的属性和记录自身的属性
func collectAttrs(existing []slog.Attr, prefix string, r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, len(existing)+r.NumAttrs())
	out = append(out, existing...)
	r.Attrs(func(a slog.Attr) bool {
		out = flatten(out, prefix, a)
		return true
	})
	return out
}

func flatten(out []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	if a.Equal(slog.Attr{}) {
		return out
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range v.Group() {
			out = flatten(out, p, ga)
		}
		return out
	}
	return append(out, slog.Attr{Key: prefix + a.Key, Value: v})
}

func source(r slog.Record) string {
	if r.PC == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	f, _ := frames.Next()
	if f.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}
