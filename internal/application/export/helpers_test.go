package export

import (
	"bytes"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/archive"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/log/handler"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/messages"
	"github.com/stretchr/testify/require"
)

const second = int64(1_000_000_000)

func newDiag() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(handler.NewLineHandler(&buf, nil)), &buf
}

func utc() *chat.TimestampConverter {
	return &chat.TimestampConverter{Location: time.UTC}
}

type routerFixture struct {
	router  *Router
	archive *archive.Archive
	diag    *bytes.Buffer
}

func newRouterFixture(t *testing.T, opts *config.ExportConfig) *routerFixture {
	t.Helper()
	store := archive.NewArchive(&config.OutputConfig{Path: filepath.Join(t.TempDir(), "export")})
	require.NoError(t, store.EnsureRoot())

	diag, buf := newDiag()
	r := NewRouter(
		store,
		NewContentResolver(diag),
		NewAttachmentResolver(messages.NewPathResolver(), store, opts),
		utc(),
		opts,
		diag,
	)
	t.Cleanup(r.Close)
	return &routerFixture{router: r, archive: store, diag: buf}
}

func (f *routerFixture) read(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{f.archive.Root()}, parts...)...))
	require.NoError(t, err)
	return string(data)
}

// textRow 构造一条纯文本消息，chatID 为空表示无会话
func textRow(id int64, chatID, text string, sec int64) *chat.Row {
	r := &chat.Row{
		MessageID: id,
		Text:      sql.NullString{String: text, Valid: true},
		Date:      sql.NullInt64{Int64: sec * second, Valid: true},
	}
	if chatID != "" {
		r.ConversationID = sql.NullString{String: chatID, Valid: true}
	}
	return r
}

func withAttachment(r *chat.Row, attachmentID int64, filename, mimeType string) *chat.Row {
	r.AttachmentID = sql.NullInt64{Int64: attachmentID, Valid: true}
	r.AttachmentFilename = sql.NullString{String: filename, Valid: true}
	r.AttachmentMIME = sql.NullString{String: mimeType, Valid: true}
	return r
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
