package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	applog "github.com/ahaslett/imessage-extractor/internal/infrastructure/log"
	"github.com/ahaslett/imessage-extractor/internal/wire"
)

func main() {
	// 初始化日志系统（控制台日志输出到 stderr）
	applog.Init(nil)

	cfg, err := config.Load()
	if err != nil {
		applog.GetLogger().Error("Failed to load config",
			"error", err,
		)
		os.Exit(1)
	}

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeApp(cfg)
	if err != nil {
		applog.GetLogger().Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	report, err := app.Run(ctx)
	stop()
	cleanup()
	if err != nil {
		os.Exit(1)
	}

	fmt.Printf("Export complete. Files saved in %s\n", report.OutputDir)
	fmt.Printf("Processed %d messages, skipped %d messages\n", report.Processed, report.Skipped)
	fmt.Printf("Check %s for details on skipped messages\n", report.LogPath)
}
