package export

import (
	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/google/wire"
)

// ProviderSet 导出应用服务 ProviderSet
var ProviderSet = wire.NewSet(
	chat.NewTimestampConverter,
	NewExporter,
)
