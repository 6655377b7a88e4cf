// Package messagestest 构建最小化的 chat.db 测试库
package messagestest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE message (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT,
	is_from_me INTEGER DEFAULT 0,
	date INTEGER,
	attributedBody BLOB
);
CREATE TABLE chat (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_identifier TEXT
);
CREATE TABLE chat_message_join (
	chat_id INTEGER REFERENCES chat (ROWID),
	message_id INTEGER REFERENCES message (ROWID)
);
CREATE TABLE attachment (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT,
	mime_type TEXT
);
CREATE TABLE message_attachment_join (
	message_id INTEGER REFERENCES message (ROWID),
	attachment_id INTEGER REFERENCES attachment (ROWID)
);`

// ChatDB 测试用 chat.db
type ChatDB struct {
	t     *testing.T
	db    *sql.DB
	Path  string
	chats map[string]int64
}

// Message 待插入的消息
type Message struct {
	Chat           string // 空表示不关联会话
	Text           *string
	IsFromMe       bool
	Date           any // nil 表示 NULL
	AttributedBody []byte
}

// New 在 dir 下创建 chat.db
func New(t *testing.T, dir string) *ChatDB {
	t.Helper()
	path := filepath.Join(dir, "chat.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	c := &ChatDB{t: t, db: db, Path: path, chats: make(map[string]int64)}
	t.Cleanup(func() { db.Close() })
	return c
}

// Text 返回字符串指针
func Text(s string) *string {
	return &s
}

// AddMessage 插入消息，返回 message.ROWID
func (c *ChatDB) AddMessage(m Message) int64 {
	c.t.Helper()
	res, err := c.db.Exec(
		"INSERT INTO message (text, is_from_me, date, attributedBody) VALUES (?, ?, ?, ?)",
		m.Text, m.IsFromMe, m.Date, m.AttributedBody,
	)
	require.NoError(c.t, err)
	id, err := res.LastInsertId()
	require.NoError(c.t, err)

	if m.Chat != "" {
		chatID := c.chatID(m.Chat)
		_, err = c.db.Exec("INSERT INTO chat_message_join (chat_id, message_id) VALUES (?, ?)", chatID, id)
		require.NoError(c.t, err)
	}
	return id
}

// AddAttachment 为消息插入一个附件，返回 attachment.ROWID
func (c *ChatDB) AddAttachment(messageID int64, filename, mimeType string) int64 {
	c.t.Helper()
	res, err := c.db.Exec("INSERT INTO attachment (filename, mime_type) VALUES (?, ?)", filename, mimeType)
	require.NoError(c.t, err)
	id, err := res.LastInsertId()
	require.NoError(c.t, err)

	_, err = c.db.Exec("INSERT INTO message_attachment_join (message_id, attachment_id) VALUES (?, ?)", messageID, id)
	require.NoError(c.t, err)
	return id
}

func (c *ChatDB) chatID(identifier string) int64 {
	if id, ok := c.chats[identifier]; ok {
		return id
	}
	res, err := c.db.Exec("INSERT INTO chat (chat_identifier) VALUES (?)", identifier)
	require.NoError(c.t, err)
	id, err := res.LastInsertId()
	require.NoError(c.t, err)
	c.chats[identifier] = id
	return id
}
