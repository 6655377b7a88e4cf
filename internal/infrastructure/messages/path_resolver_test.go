package messages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathResolver_Expand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p := NewPathResolver()
	assert.Equal(t, filepath.Join(home, "Library", "Messages", "Attachments", "x.jpg"),
		p.Expand("~/Library/Messages/Attachments/x.jpg"))
	assert.Equal(t, "/var/folders/x.jpg", p.Expand("/var/folders/x.jpg"))
}

func TestPathResolver_Exists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	p := NewPathResolver()
	assert.True(t, p.Exists(file))
	assert.True(t, p.Exists(dir))
	assert.False(t, p.Exists(filepath.Join(dir, "missing")))
}

func TestPathResolver_ResolveChatDB(t *testing.T) {
	dir := t.TempDir()
	p := NewPathResolver()

	_, err := p.ResolveChatDB(dir)
	assert.ErrorIs(t, err, chat.ErrSourceNotFound, "目录不是数据库文件")

	file := filepath.Join(dir, "chat.db")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	got, err := p.ResolveChatDB(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)
}
