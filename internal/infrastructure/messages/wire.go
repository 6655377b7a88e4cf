package messages

import "github.com/google/wire"

// ProviderSet 消息数据源 ProviderSet
var ProviderSet = wire.NewSet(
	NewPathResolver,
	ProvideMessageSource,
)
