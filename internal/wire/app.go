package wire

import (
	"context"
	"log/slog"

	"github.com/ahaslett/imessage-extractor/internal/application/export"
	applog "github.com/ahaslett/imessage-extractor/internal/infrastructure/log"
)

// App 应用主结构
type App struct {
	exporter *export.Exporter
	logger   *slog.Logger
}

// NewApp 创建应用实例
func NewApp(exporter *export.Exporter) *App {
	return &App{
		exporter: exporter,
		logger:   applog.NewModuleLogger("app", "main"),
	}
}

// Run 执行一次导出
func (a *App) Run(ctx context.Context) (*export.Report, error) {
	a.logger.Info("Starting iMessage export")

	report, err := a.exporter.Run(ctx)
	if err != nil {
		a.logger.Error("Export failed",
			"error", err,
		)
		return nil, err
	}

	a.logger.Info("iMessage export completed",
		"run_id", report.RunID,
	)
	return report, nil
}
