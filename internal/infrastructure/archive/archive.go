package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
)

// Archive 导出目录：每个会话一个子目录，内含转录文件和附件副本
type Archive struct {
	root string
}

// NewArchive 创建导出目录存储
func NewArchive(cfg *config.OutputConfig) *Archive {
	return &Archive{root: cfg.Path}
}

// Root 导出根目录
func (a *Archive) Root() string {
	return a.root
}

// EnsureRoot 创建导出根目录
func (a *Archive) EnsureRoot() error {
	if err := os.MkdirAll(a.root, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// EnsureConversationDir 确保会话目录存在（幂等），返回目录路径
func (a *Archive) EnsureConversationDir(name string) (string, error) {
	dir := filepath.Join(a.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// OpenTranscript 以追加模式打开转录文件，不存在则创建
// 同一会话在时间线上再次出现时继续追加，不覆盖已有内容
func (a *Archive) OpenTranscript(dir, name string) (io.WriteCloser, error) {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CopyFile 复制文件内容和权限位到 dst，已存在则覆盖
func (a *Archive) CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}
