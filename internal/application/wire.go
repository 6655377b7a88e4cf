package application

import (
	"github.com/ahaslett/imessage-extractor/internal/application/export"
	"github.com/google/wire"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	export.ProviderSet,
)
