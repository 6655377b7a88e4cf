package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/archive"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	applog "github.com/ahaslett/imessage-extractor/internal/infrastructure/log"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/messages"
	"github.com/google/uuid"
)

// Report 一次导出的结果
type Report struct {
	RunID     string
	OutputDir string
	LogPath   string
	Stats
}

// Exporter 单次遍历消息源，生成每个会话的转录和附件副本
type Exporter struct {
	source     chat.MessageSource
	archive    *archive.Archive
	paths      *messages.PathResolver
	timestamps *chat.TimestampConverter
	output     *config.OutputConfig
	opts       *config.ExportConfig
	logger     *slog.Logger
}

// NewExporter 创建导出器
func NewExporter(
	source chat.MessageSource,
	store *archive.Archive,
	paths *messages.PathResolver,
	timestamps *chat.TimestampConverter,
	output *config.OutputConfig,
	opts *config.ExportConfig,
) *Exporter {
	return &Exporter{
		source:     source,
		archive:    store,
		paths:      paths,
		timestamps: timestamps,
		output:     output,
		opts:       opts,
		logger:     applog.NewModuleLogger("export", "exporter"),
	}
}

// Run 执行导出
// 只有导出目录或诊断日志无法创建、消息源读取中断时返回错误；
// 单行的问题记录在诊断日志中并计入跳过数
func (e *Exporter) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New().String()
	ctx = applog.WithRunID(ctx, runID)

	if err := e.archive.EnsureRoot(); err != nil {
		return nil, err
	}

	diag, err := applog.OpenDiagnosticLog(e.output.DebugLogPath())
	if err != nil {
		return nil, err
	}
	defer diag.Close()

	e.logger.InfoContext(ctx, "Export started",
		"output", e.archive.Root(),
		"log", diag.Path(),
	)

	router := NewRouter(
		e.archive,
		NewContentResolver(diag.Logger),
		NewAttachmentResolver(e.paths, e.archive, e.opts),
		e.timestamps,
		e.opts,
		diag.Logger,
	)

	iterErr := e.source.Each(ctx, func(row *chat.Row) error {
		router.Route(ctx, row)
		return nil
	})
	router.Close()

	stats := router.Stats()
	diag.Info(fmt.Sprintf("Processed %d messages, skipped %d messages", stats.Processed, stats.Skipped))

	if iterErr != nil {
		e.logger.ErrorContext(ctx, "Export aborted",
			"processed", stats.Processed,
			"error", iterErr,
		)
		return nil, fmt.Errorf("failed to read messages: %w", iterErr)
	}

	e.logger.InfoContext(ctx, "Export finished",
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"conversations", stats.Conversations,
		"media_saved", stats.MediaSaved,
		"media_missing", stats.MediaMissing,
		"media_failed", stats.MediaFailed,
	)

	return &Report{
		RunID:     runID,
		OutputDir: e.archive.Root(),
		LogPath:   diag.Path(),
		Stats:     stats,
	}, nil
}
