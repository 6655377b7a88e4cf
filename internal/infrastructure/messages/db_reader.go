package messages

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ahaslett/imessage-extractor/internal/domain/chat"
	"github.com/ahaslett/imessage-extractor/internal/infrastructure/config"
	applog "github.com/ahaslett/imessage-extractor/internal/infrastructure/log"
	_ "modernc.org/sqlite"
)

// ChatDBReader chat.db 只读数据源
// Snapshot 模式下先复制到临时目录，避免与正在运行的 Messages 争用文件锁
type ChatDBReader struct {
	db          *sql.DB
	path        string
	snapshotDir string
	logger      *slog.Logger
}

// NewChatDBReader 打开 chat.db，失败时立即返回错误
func NewChatDBReader(cfg *config.SourceConfig, pathResolver *PathResolver) (*ChatDBReader, error) {
	dbPath, err := pathResolver.ResolveChatDB(cfg.Path)
	if err != nil {
		return nil, err
	}

	r := &ChatDBReader{
		path:   dbPath,
		logger: applog.NewModuleLogger("messages", "db_reader"),
	}

	openPath := dbPath
	if cfg.Snapshot {
		dir, err := os.MkdirTemp("", "imessage_export_*")
		if err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		r.snapshotDir = dir
		openPath, err = snapshotDatabase(dbPath, dir)
		if err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to copy database file: %w", err)
		}
		r.logger.Debug("Database snapshot created", "source", dbPath, "snapshot", openPath)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(openPath))
	if err != nil {
		r.cleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		r.cleanup()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	r.db = db

	return r, nil
}

// ProvideMessageSource 提供 MessageSource 实例（用于依赖注入）
func ProvideMessageSource(cfg *config.SourceConfig, pathResolver *PathResolver) (chat.MessageSource, func(), error) {
	r, err := NewChatDBReader(cfg, pathResolver)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { r.Close() }, nil
}

// Path 实际读取的数据库路径
func (r *ChatDBReader) Path() string {
	return r.path
}

// Each 按时间升序遍历所有消息行
func (r *ChatDBReader) Each(ctx context.Context, fn func(*chat.Row) error) error {
	if r.db == nil {
		return fmt.Errorf("database is closed")
	}

	rows, err := r.db.QueryContext(ctx, messageQuery)
	if err != nil {
		return fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return fmt.Errorf("failed to scan message row: %w", err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate messages: %w", err)
	}
	return nil
}

// Close 关闭数据库并删除快照
func (r *ChatDBReader) Close() error {
	var err error
	if r.db != nil {
		err = r.db.Close()
		r.db = nil
	}
	r.cleanup()
	return err
}

func (r *ChatDBReader) cleanup() {
	if r.snapshotDir != "" {
		os.RemoveAll(r.snapshotDir)
		r.snapshotDir = ""
	}
}

func scanRow(rows *sql.Rows) (*chat.Row, error) {
	var (
		row      chat.Row
		isFromMe sql.NullBool
		date     any
	)
	if err := rows.Scan(
		&row.ConversationID,
		&row.Text,
		&isFromMe,
		&date,
		&row.AttachmentID,
		&row.AttachmentFilename,
		&row.AttachmentMIME,
		&row.AttributedBody,
		&row.MessageID,
	); err != nil {
		return nil, err
	}
	row.IsFromMe = isFromMe.Valid && isFromMe.Bool
	row.Date = toNullInt64(date)
	return &row, nil
}

// toNullInt64 message.date 可能为空或被写成非整数，无法识别时返回无效值
func toNullInt64(v any) sql.NullInt64 {
	switch val := v.(type) {
	case int64:
		return sql.NullInt64{Int64: val, Valid: true}
	case float64:
		return sql.NullInt64{Int64: int64(val), Valid: true}
	case []byte:
		return parseNullInt64(string(val))
	case string:
		return parseNullInt64(val)
	default:
		return sql.NullInt64{}
	}
}

func parseNullInt64(s string) sql.NullInt64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}

// readOnlyDSN 构建只读连接字符串 file:///abs/path?mode=ro
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=ro"}
	return u.String()
}

// snapshotDatabase 复制数据库及其 -wal/-shm 文件到 dir
func snapshotDatabase(dbPath, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(dbPath))
	if err := copyFile(dbPath, dst); err != nil {
		return "", err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(dbPath + suffix); err != nil {
			continue
		}
		if err := copyFile(dbPath+suffix, dst+suffix); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// copyFile 复制文件
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// 确保数据写入磁盘
	return dstFile.Sync()
}
