package export

import (
	"fmt"
	"log/slog"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
)

// ContentResolver 确定转录行的消息内容
// 优先使用纯文本，否则按 plist → 原始字节 的顺序解码 attributedBody
type ContentResolver struct {
	diag *slog.Logger
}

// NewContentResolver 创建内容解析器，diag 接收解码回退的诊断信息
func NewContentResolver(diag *slog.Logger) *ContentResolver {
	return &ContentResolver{diag: diag}
}

// Resolve 返回消息内容，不会返回空字符串
func (c *ContentResolver) Resolve(row *chat.Row) string {
	if row.HasText() {
		return row.Text.String
	}

	res := c.Decode(row.AttributedBody, row.MessageID)
	if res.Kind == chat.DecodeNoContent || res.Text == "" {
		return chat.NoTextPlaceholder
	}
	return res.Text
}

// Decode 逐层解码富文本，每个失败的消息最多写一条诊断
func (c *ContentResolver) Decode(blob []byte, messageID int64) chat.DecodeResult {
	res := chat.DecodeStructured(blob)
	switch res.Kind {
	case chat.DecodeNoContent, chat.DecodeDecoded:
		return res
	case chat.DecodeComplexUnparsed:
		c.diag.Warn(fmt.Sprintf("Message ID %d: Unparsed plist structure: %s", messageID, res.Detail))
		return res
	}

	c.diag.Warn(fmt.Sprintf("Message ID %d: Plist parsing failed: %s", messageID, res.Detail))
	return chat.DecodeRaw(blob)
}
