package messages

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
)

// PathResolver 路径解析器，定位 chat.db 和附件文件
type PathResolver struct{}

// NewPathResolver 创建路径解析器实例
func NewPathResolver() *PathResolver {
	return &PathResolver{}
}

// PathNotFoundError 路径未找到错误
type PathNotFoundError struct {
	// PathType 路径类型: "chat_db", "attachment"
	PathType string
	// AttemptedPath 尝试访问的路径
	AttemptedPath string
	// Err 底层错误
	Err error
}

// Error 实现 error 接口
func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("%s not found at %s: %v", e.PathType, e.AttemptedPath, e.Err)
}

// Unwrap chat_db 类型的错误同时匹配 chat.ErrSourceNotFound
func (e *PathNotFoundError) Unwrap() []error {
	if e.PathType == "chat_db" {
		return []error{chat.ErrSourceNotFound, e.Err}
	}
	return []error{e.Err}
}

// ResolveChatDB 展开 ~ 并确认 chat.db 存在，返回绝对路径
func (p *PathResolver) ResolveChatDB(path string) (string, error) {
	expanded := p.Expand(path)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &PathNotFoundError{PathType: "chat_db", AttemptedPath: abs, Err: err}
	}
	if info.IsDir() {
		return "", &PathNotFoundError{PathType: "chat_db", AttemptedPath: abs, Err: fmt.Errorf("is a directory")}
	}
	return abs, nil
}

// Expand 展开 ~ 开头的路径（attachment.filename 通常以 ~/Library/Messages 开头）
func (p *PathResolver) Expand(path string) string {
	return config.ExpandHome(path)
}

// Exists 路径是否存在；无法 stat 的路径视为不存在
func (p *PathResolver) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
