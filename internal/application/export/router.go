package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	applog "github.com/ahaslett/imessage-extractor/internal/infrastructure/log"
)

// ConversationStore 会话目录和转录文件的存储
type ConversationStore interface {
	EnsureConversationDir(name string) (string, error)
	OpenTranscript(dir, name string) (io.WriteCloser, error)
}

// RouteOutcome 单行的处理结果
type RouteOutcome int

const (
	// RouteProcessed 已写入一行转录
	RouteProcessed RouteOutcome = iota
	// RouteSkipped 该行被跳过（时间戳无效或转录不可写）
	RouteSkipped
	// RouteMerged 同一消息的后续附件行，只追加了附件说明
	RouteMerged
)

// Stats 导出统计
type Stats struct {
	Processed     int
	Skipped       int
	Conversations int // 打开转录的次数，同一会话重访会重复计数
	MediaSaved    int
	MediaMissing  int
	MediaFailed   int
}

// Router 把按时间排序的行分派到各会话的转录文件
// 同一时刻只打开一个会话；会话标识变化或遇到孤立消息时切换
type Router struct {
	store       ConversationStore
	content     *ContentResolver
	attachments *AttachmentResolver
	timestamps  *chat.TimestampConverter
	opts        *config.ExportConfig
	diag        *slog.Logger
	logger      *slog.Logger

	active      bool
	current     sql.NullString
	conv        chat.Conversation
	dir         string
	transcript  io.WriteCloser
	mediaCount  int
	lastMessage int64
	hasLast     bool

	stats Stats
}

// NewRouter 创建路由器
func NewRouter(
	store ConversationStore,
	content *ContentResolver,
	attachments *AttachmentResolver,
	timestamps *chat.TimestampConverter,
	opts *config.ExportConfig,
	diag *slog.Logger,
) *Router {
	if opts == nil {
		opts = &config.ExportConfig{}
	}
	return &Router{
		store:       store,
		content:     content,
		attachments: attachments,
		timestamps:  timestamps,
		opts:        opts,
		diag:        diag,
		logger:      applog.NewModuleLogger("export", "router"),
	}
}

// isBoundary 是否需要切换到新的转录文件
// 孤立消息每行都切换；其余在标识变化（含空与非空之间）时切换
func isBoundary(active bool, current sql.NullString, row *chat.Row, conv chat.Conversation) bool {
	return !active || row.ConversationID != current || conv.IsOrphaned()
}

// Route 处理一行
func (r *Router) Route(ctx context.Context, row *chat.Row) RouteOutcome {
	ts, err := r.timestamps.Format(row.Date)
	if err != nil {
		r.diag.Warn(fmt.Sprintf("Skipped message ID %d: Invalid date", row.MessageID))
		r.stats.Skipped++
		return RouteSkipped
	}

	conv := chat.ConversationFor(row)
	if isBoundary(r.active, r.current, row, conv) {
		if err := r.open(conv, row.MessageID); err != nil {
			var openErr *chat.TranscriptOpenError
			if errors.As(err, &openErr) {
				r.diag.Warn(fmt.Sprintf("Failed to open file for %s, message ID %d: %v",
					openErr.Conversation, openErr.MessageID, openErr.Err))
			} else {
				r.diag.Warn(err.Error())
			}
			r.stats.Skipped++
			return RouteSkipped
		}
	}

	ctx = applog.WithConversation(ctx, conv.FolderName)
	sender := row.Sender()

	outcome := RouteProcessed
	if r.opts.CollapseAttachmentRows && r.hasLast && r.lastMessage == row.MessageID {
		outcome = RouteMerged
	} else {
		line := chat.FormatLine(ts, sender, r.content.Resolve(row))
		if err := r.write(line); err != nil {
			r.diag.Warn(fmt.Sprintf("Failed to write to file for %s, message ID %d: %v", conv.FolderName, row.MessageID, err))
			r.stats.Skipped++
			r.closeCurrent()
			return RouteSkipped
		}
		r.stats.Processed++
	}
	r.lastMessage = row.MessageID
	r.hasLast = true

	if row.HasAttachment() {
		r.mediaCount++
		res := r.attachments.Resolve(row, r.dir, r.mediaCount)
		switch res.Outcome {
		case MediaSaved:
			r.stats.MediaSaved++
		case MediaMissing:
			r.stats.MediaMissing++
		default:
			r.stats.MediaFailed++
			r.logger.DebugContext(ctx, "Attachment copy failed",
				"message_id", row.MessageID,
				"error", res.Err,
			)
		}
		if err := r.write(chat.FormatLine(ts, sender, res.TranscriptText())); err != nil {
			r.diag.Warn(fmt.Sprintf("Failed to write to file for %s, message ID %d: %v", conv.FolderName, row.MessageID, err))
			r.closeCurrent()
		}
	}

	return outcome
}

// open 关闭当前转录，切换到 conv 对应的转录文件
// 失败时路由器回到未激活状态，下一行会重新尝试打开
func (r *Router) open(conv chat.Conversation, messageID int64) error {
	r.closeCurrent()

	dir, err := r.store.EnsureConversationDir(conv.FolderName)
	if err != nil {
		return &chat.TranscriptOpenError{
			Conversation: conv.FolderName,
			MessageID:    messageID,
			Path:         conv.FolderName,
			Err:          err,
		}
	}

	w, err := r.store.OpenTranscript(dir, conv.FileName)
	if err != nil {
		return &chat.TranscriptOpenError{
			Conversation: conv.FolderName,
			MessageID:    messageID,
			Path:         filepath.Join(dir, conv.FileName),
			Err:          err,
		}
	}

	r.active = true
	r.current = conv.RawID
	r.conv = conv
	r.dir = dir
	r.transcript = w
	r.mediaCount = 0
	r.hasLast = false
	r.stats.Conversations++

	r.logger.Debug("Conversation opened",
		"conversation", conv.FolderName,
		"file", conv.FileName,
	)
	return nil
}

func (r *Router) write(line string) error {
	_, err := io.WriteString(r.transcript, line)
	return err
}

func (r *Router) closeCurrent() {
	if r.transcript != nil {
		if err := r.transcript.Close(); err != nil {
			r.logger.Warn("Failed to close transcript",
				"conversation", r.conv.FolderName,
				"error", err,
			)
		}
	}
	r.active = false
	r.current = sql.NullString{}
	r.conv = chat.Conversation{}
	r.dir = ""
	r.transcript = nil
	r.hasLast = false
}

// Close 关闭当前打开的转录文件
func (r *Router) Close() {
	r.closeCurrent()
}

// Stats 返回当前统计
func (r *Router) Stats() Stats {
	return r.stats
}
