package infrastructure

import (
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/archive"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/messages"
	"github.com/google/wire"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	messages.ProviderSet,
	archive.ProviderSet,
)
