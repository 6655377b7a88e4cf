package log

import (
	"context"
	"log/slog"
)

type contextKey string

// 上下文键定义
const (
	// RunContextID 导出批次 ID
	RunContextID contextKey = "run_id"

	// ConversationContextID 当前会话目录名
	ConversationContextID contextKey = "conversation"
)

// WithRunID 在上下文中添加导出批次 ID
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunContextID, runID)
}

// WithConversation 在上下文中添加会话目录名
func WithConversation(ctx context.Context, conversation string) context.Context {
	return context.WithValue(ctx, ConversationContextID, conversation)
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	for _, key := range []contextKey{RunContextID, ConversationContextID} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}
