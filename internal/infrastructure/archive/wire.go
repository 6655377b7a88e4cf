package archive

import "github.com/google/wire"

// ProviderSet 导出目录存储 ProviderSet
var ProviderSet = wire.NewSet(
	NewArchive,
)
