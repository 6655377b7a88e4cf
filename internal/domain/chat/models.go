package chat

import (
	"database/sql"
	"fmt"
	"strconv"
)

const (
	// OrphanedConversation 无会话标识的消息统一归入的目录名
	OrphanedConversation = "orphaned_messages"

	// SenderMe 本人发送的消息的发送者标签
	SenderMe = "Me"

	// NoTextPlaceholder 消息既无文本也无富文本内容时的占位符
	NoTextPlaceholder = "[No text]"
)

// Row chat.db 联表查询得到的一行消息
// 同一条消息带多个附件时会出现多行（每个附件一行）
type Row struct {
	ConversationID     sql.NullString // chat.chat_identifier：手机号、邮箱或空
	Text               sql.NullString // message.text
	IsFromMe           bool           // message.is_from_me
	Date               sql.NullInt64  // message.date，自 2001-01-01 起的纳秒数
	AttachmentID       sql.NullInt64  // attachment.ROWID
	AttachmentFilename sql.NullString // attachment.filename，可能以 ~ 开头
	AttachmentMIME     sql.NullString // attachment.mime_type
	AttributedBody     []byte         // message.attributedBody
	MessageID          int64          // message.ROWID
}

// HasText 消息是否带有非空的纯文本
func (r *Row) HasText() bool {
	return r.Text.Valid && r.Text.String != ""
}

// HasAttachment 附件 ID、文件名、MIME 类型三者齐全时才视为带附件
func (r *Row) HasAttachment() bool {
	return r.AttachmentID.Valid &&
		r.AttachmentFilename.Valid && r.AttachmentFilename.String != "" &&
		r.AttachmentMIME.Valid && r.AttachmentMIME.String != ""
}

// Sender 返回转录行中的发送者标签
func (r *Row) Sender() string {
	if r.IsFromMe {
		return SenderMe
	}
	if r.ConversationID.Valid && r.ConversationID.String != "" {
		return r.ConversationID.String
	}
	return fmt.Sprintf("Unknown_%d", r.MessageID)
}

// Conversation 一个会话在归档中的命名信息
type Conversation struct {
	RawID      sql.NullString
	FolderName string // 规范化后的目录名
	FileName   string // 转录文件名
}

// IsOrphaned 是否为无标识的孤立消息会话
func (c Conversation) IsOrphaned() bool {
	return c.FolderName == OrphanedConversation
}

// ConversationFor 计算某行所属会话的目录名和转录文件名
// 孤立消息按消息 ID 各自成文件，其余按规范化标识共用一个文件
func ConversationFor(r *Row) Conversation {
	folder := NormalizeIdentifier(r.ConversationID)
	key := folder
	if folder == OrphanedConversation {
		key = strconv.FormatInt(r.MessageID, 10)
	}
	return Conversation{
		RawID:      r.ConversationID,
		FolderName: folder,
		FileName:   fmt.Sprintf("conversation_%s.txt", key),
	}
}

// FormatLine 格式化一条转录行
func FormatLine(timestamp, sender, content string) string {
	return fmt.Sprintf("[%s] %s: %s\n", timestamp, sender, content)
}
