//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/ahaslett/imessage-extractor/internal/application"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	"github.com/google/wire"
)

// InitializeApp 初始化导出应用
// 返回的 cleanup 关闭消息数据库并清理快照
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		NewApp,
	)
	return nil, nil, nil
}
