package chat

import "context"

// MessageSource 按时间升序产出消息行的数据源
// 实现只读，不修改底层数据
type MessageSource interface {
	// Each 按顺序对每一行调用 fn，fn 返回错误时停止遍历并返回该错误
	Each(ctx context.Context, fn func(*Row) error) error
	// Close 释放数据源
	Close() error
}
