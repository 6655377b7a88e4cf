package messages

// messageQuery 按时间顺序取出所有消息及其会话、附件
// 一条消息有多个附件时产生多行；同一时间的行按消息、附件 ROWID 排序保证稳定
const messageQuery = `
	SELECT c.chat_identifier, m.text, m.is_from_me, m.date,
	       a.ROWID, a.filename, a.mime_type, m.attributedBody, m.ROWID
	FROM message m
	LEFT JOIN chat_message_join cmj ON m.ROWID = cmj.message_id
	LEFT JOIN chat c ON cmj.chat_id = c.ROWID
	LEFT JOIN message_attachment_join maj ON m.ROWID = maj.message_id
	LEFT JOIN attachment a ON maj.attachment_id = a.ROWID
	ORDER BY m.date, m.ROWID, a.ROWID`
