package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	"github.com/gabriel-vasile/mimetype"
)

const defaultExtension = ".bin"

// MediaOutcome 附件处理结果
type MediaOutcome int

const (
	// MediaSaved 已复制到会话目录
	MediaSaved MediaOutcome = iota
	// MediaMissing 源文件不存在
	MediaMissing
	// MediaCopyFailed 复制失败
	MediaCopyFailed
)

// PathLookup 附件源路径的展开和存在性检查
type PathLookup interface {
	Expand(path string) string
	Exists(path string) bool
}

// MediaStore 附件复制目标
type MediaStore interface {
	CopyFile(src, dst string) error
}

// MediaResult 单个附件的处理结果
type MediaResult struct {
	Outcome  MediaOutcome
	FileName string
	Err      error
}

// TranscriptText 写入转录的附件说明
func (r MediaResult) TranscriptText() string {
	switch r.Outcome {
	case MediaSaved:
		return fmt.Sprintf("[Media saved as %s]", r.FileName)
	case MediaMissing:
		return "[Media not found for attachment]"
	default:
		cause := r.Err
		var copyErr *chat.AttachmentCopyError
		if errors.As(r.Err, &copyErr) {
			cause = copyErr.Err
		}
		return fmt.Sprintf("[Media copy failed: %v]", cause)
	}
}

// AttachmentResolver 把附件复制到会话目录，命名为 media_<n><ext>
type AttachmentResolver struct {
	paths PathLookup
	store MediaStore
	opts  *config.ExportConfig
}

// NewAttachmentResolver 创建附件解析器
func NewAttachmentResolver(paths PathLookup, store MediaStore, opts *config.ExportConfig) *AttachmentResolver {
	if opts == nil {
		opts = &config.ExportConfig{}
	}
	return &AttachmentResolver{paths: paths, store: store, opts: opts}
}

// Resolve 处理一行的附件，seq 为会话内的附件序号（从 1 开始）
// 源文件缺失或复制失败都不返回错误，只体现在结果中
func (r *AttachmentResolver) Resolve(row *chat.Row, dir string, seq int) MediaResult {
	ext := ExtensionFor(row.AttachmentMIME.String, row.AttachmentFilename.String, r.opts.PreserveSourceExtension)
	name := fmt.Sprintf("media_%d%s", seq, ext)

	src := r.paths.Expand(row.AttachmentFilename.String)
	if !r.paths.Exists(src) {
		return MediaResult{Outcome: MediaMissing, FileName: name}
	}

	dst := filepath.Join(dir, name)
	if err := r.store.CopyFile(src, dst); err != nil {
		return MediaResult{
			Outcome:  MediaCopyFailed,
			FileName: name,
			Err:      &chat.AttachmentCopyError{Source: src, Destination: dst, Err: err},
		}
	}
	return MediaResult{Outcome: MediaSaved, FileName: name}
}

// ExtensionFor 根据 MIME 类型确定附件扩展名
// 图片统一 .png、视频统一 .mp4；其余按 MIME 查表，未知为 .bin
// preserveSource 为 true 且源文件带扩展名时直接使用源扩展名
func ExtensionFor(mimeType, filename string, preserveSource bool) string {
	if preserveSource {
		if ext := filepath.Ext(filename); ext != "" {
			return strings.ToLower(ext)
		}
	}

	switch {
	case strings.Contains(mimeType, "image"):
		return ".png"
	case strings.Contains(mimeType, "video"):
		return ".mp4"
	}

	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if m := mimetype.Lookup(base); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return defaultExtension
}
