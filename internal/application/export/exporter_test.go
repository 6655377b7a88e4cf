package export

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ahaslett/imessage-extractor/internal/infrastructure/archive"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/messages"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/messages/messagestest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func newTestExporter(t *testing.T, dbPath, outDir string) *Exporter {
	t.Helper()
	paths := messages.NewPathResolver()
	reader, err := messages.NewChatDBReader(&config.SourceConfig{Path: dbPath}, paths)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })

	output := &config.OutputConfig{Path: outDir}
	return NewExporter(reader, archive.NewArchive(output), paths, utc(), output, &config.ExportConfig{})
}

func TestExporter_EndToEnd(t *testing.T) {
	fx := messagestest.New(t, t.TempDir())

	rich, err := plist.Marshal(map[string]any{"NS.string": "hello"}, plist.XMLFormat)
	require.NoError(t, err)

	fx.AddMessage(messagestest.Message{Chat: "+15551234567", Text: messagestest.Text("hi"), IsFromMe: true, Date: int64(0)})
	fx.AddMessage(messagestest.Message{Chat: "+15551234567", AttributedBody: rich, Date: int64(60_000_000_000)})
	lost := fx.AddMessage(messagestest.Message{Text: messagestest.Text("lost"), IsFromMe: true, Date: int64(120_000_000_000)})

	out := filepath.Join(t.TempDir(), "iMessages_Export")
	report, err := newTestExporter(t, fx.Path, out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Conversations)
	assert.Equal(t, out, report.OutputDir)
	assert.Equal(t, filepath.Join(out, config.DebugLogName), report.LogPath)
	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "5551234567", "conversation_5551234567.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"[2001-01-01 00:00:00] Me: hi\n[2001-01-01 00:01:00] +15551234567: hello\n",
		string(data))

	data, err = os.ReadFile(filepath.Join(out, "orphaned_messages", "conversation_"+strconv.FormatInt(lost, 10)+".txt"))
	require.NoError(t, err)
	assert.Equal(t, "[2001-01-01 00:02:00] Me: lost\n", string(data))

	data, err = os.ReadFile(report.LogPath)
	require.NoError(t, err)
	assert.Equal(t, "Processed 3 messages, skipped 0 messages\n", string(data))
}

func TestExporter_SkipsInvalidDates(t *testing.T) {
	fx := messagestest.New(t, t.TempDir())
	bad := fx.AddMessage(messagestest.Message{Chat: "alice@example.com", Text: messagestest.Text("when?")})
	fx.AddMessage(messagestest.Message{Chat: "alice@example.com", Text: messagestest.Text("now"), Date: int64(0)})

	out := t.TempDir()
	report, err := newTestExporter(t, fx.Path, out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Skipped)

	data, err := os.ReadFile(report.LogPath)
	require.NoError(t, err)
	assert.Equal(t,
		"Skipped message ID "+strconv.FormatInt(bad, 10)+": Invalid date\nProcessed 1 messages, skipped 1 messages\n",
		string(data))

	data, err = os.ReadFile(filepath.Join(out, "alice_example_com", "conversation_alice_example_com.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[2001-01-01 00:00:00] alice@example.com: now\n", string(data))
}

func TestExporter_OutputRootUncreatable(t *testing.T) {
	fx := messagestest.New(t, t.TempDir())
	fx.AddMessage(messagestest.Message{Text: messagestest.Text("x"), Date: int64(0)})

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := newTestExporter(t, fx.Path, filepath.Join(blocker, "out")).Run(context.Background())
	assert.Error(t, err)
}

func TestExporter_DiagnosticLogTruncated(t *testing.T) {
	fx := messagestest.New(t, t.TempDir())
	fx.AddMessage(messagestest.Message{Chat: "bob", Text: messagestest.Text("x"), Date: int64(0)})

	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, config.DebugLogName), []byte("stale\n"), 0644))

	report, err := newTestExporter(t, fx.Path, out).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(report.LogPath)
	require.NoError(t, err)
	assert.Equal(t, "Processed 1 messages, skipped 0 messages\n", string(data))
}
