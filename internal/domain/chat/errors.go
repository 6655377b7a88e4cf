package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestamp 消息时间戳为空或无法表示，该行会被跳过
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrSourceNotFound 消息数据库文件不存在
	ErrSourceNotFound = errors.New("message database not found")
)

// TranscriptOpenError 会话目录或转录文件无法打开，该行会被跳过
type TranscriptOpenError struct {
	// Conversation 规范化后的会话名
	Conversation string
	// MessageID 触发打开的消息
	MessageID int64
	// Path 尝试打开的路径
	Path string
	// Err 底层错误
	Err error
}

// Error 返回错误描述
func (e *TranscriptOpenError) Error() string {
	return fmt.Sprintf("failed to open transcript for %s, message ID %d: %v", e.Conversation, e.MessageID, e.Err)
}

// Unwrap 返回底层错误
func (e *TranscriptOpenError) Unwrap() error {
	return e.Err
}

// AttachmentCopyError 附件复制失败，只在转录中记录，不算跳过
type AttachmentCopyError struct {
	Source      string
	Destination string
	Err         error
}

// Error 返回错误描述
func (e *AttachmentCopyError) Error() string {
	return fmt.Sprintf("copy %s to %s: %v", e.Source, e.Destination, e.Err)
}

// Unwrap 返回底层错误
func (e *AttachmentCopyError) Unwrap() error {
	return e.Err
}
