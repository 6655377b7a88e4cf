package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ahaslett/imessage-extractor/internal/infrastructure/log/handler"
)

// DiagnosticLog 导出过程的诊断日志文件（debug_log.txt）
// 每个事件一行：跳过原因、解码回退、最终统计
type DiagnosticLog struct {
	*slog.Logger
	path string
	file *os.File
}

// OpenDiagnosticLog 创建（截断）诊断日志文件
func OpenDiagnosticLog(path string) (*DiagnosticLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostic log: %w", err)
	}
	return &DiagnosticLog{
		Logger: slog.New(handler.NewLineHandler(f, nil)),
		path:   path,
		file:   f,
	}, nil
}

// Path 日志文件路径
func (d *DiagnosticLog) Path() string {
	return d.path
}

// Close 关闭日志文件
func (d *DiagnosticLog) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
