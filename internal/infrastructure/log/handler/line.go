package handler

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// LineHandler 纯文本行处理器：每条记录写一行 "消息 key=value ..."
// 不输出时间和级别，用于导出诊断日志文件
type LineHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr
	prefix string
}

// NewLineHandler 创建纯文本行处理器，opts 为 nil 时记录所有级别
func NewLineHandler(out io.Writer, opts *slog.HandlerOptions) *LineHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}
	return &LineHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		out:  out,
	}
}

// Enabled 检查日志级别是否启用
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return enabled(h.opts, level)
}

// Handle 处理日志记录
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range collectAttrs(h.attrs, h.prefix, r) {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(a.Value.Resolve().String()))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// WithAttrs 返回带有额外属性的处理器
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = appendAttrs(h.attrs, h.prefix, attrs)
	return &clone
}

// WithGroup 返回带有分组的处理器
func (h *LineHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.prefix = groupPrefix(h.prefix, name)
	return &clone
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
