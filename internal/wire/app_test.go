package wire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/messages/messagestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp_Run(t *testing.T) {
	fx := messagestest.New(t, t.TempDir())
	fx.AddMessage(messagestest.Message{Chat: "+15550001111", Text: messagestest.Text("hi"), IsFromMe: true, Date: int64(0)})

	out := filepath.Join(t.TempDir(), "export")
	cfg := &config.Config{
		Source: config.SourceConfig{Path: fx.Path, Snapshot: true},
		Output: config.OutputConfig{Path: out},
	}

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()

	report, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.FileExists(t, filepath.Join(out, "5550001111", "conversation_5550001111.txt"))
	assert.FileExists(t, filepath.Join(out, config.DebugLogName))
}

func TestInitializeApp_MissingSource(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export")
	cfg := &config.Config{
		Source: config.SourceConfig{Path: filepath.Join(t.TempDir(), "chat.db")},
		Output: config.OutputConfig{Path: out},
	}

	_, _, err := InitializeApp(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, chat.ErrSourceNotFound))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "数据源不可用时不创建导出目录")
}
