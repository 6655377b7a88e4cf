package chat

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	// AppleEpochOffset 2001-01-01T00:00:00Z 相对 Unix 纪元的秒数
	AppleEpochOffset int64 = 978_307_200

	// TimestampLayout 转录行中的时间格式
	TimestampLayout = "2006-01-02 15:04:05"

	nanosPerSecond int64 = 1_000_000_000
)

// TimestampConverter 将 chat.db 的纳秒时间戳转换为可读的本地时间
type TimestampConverter struct {
	// Location 输出时区，nil 表示 time.Local
	Location *time.Location
}

// NewTimestampConverter 创建使用本地时区的转换器
func NewTimestampConverter() *TimestampConverter {
	return &TimestampConverter{Location: time.Local}
}

// Time 将原始值转换为 time.Time
// 空值或超出 1..9999 年范围时返回 ErrInvalidTimestamp
func (c *TimestampConverter) Time(raw sql.NullInt64) (time.Time, error) {
	if !raw.Valid {
		return time.Time{}, fmt.Errorf("%w: value is null", ErrInvalidTimestamp)
	}

	sec := raw.Int64/nanosPerSecond + AppleEpochOffset
	t := time.Unix(sec, raw.Int64%nanosPerSecond).In(c.location())
	if y := t.Year(); y < 1 || y > 9999 {
		return time.Time{}, fmt.Errorf("%w: %d is out of range", ErrInvalidTimestamp, raw.Int64)
	}
	return t, nil
}

// Format 将原始值格式化为 YYYY-MM-DD HH:MM:SS
func (c *TimestampConverter) Format(raw sql.NullInt64) (string, error) {
	t, err := c.Time(raw)
	if err != nil {
		return "", err
	}
	return t.Format(TimestampLayout), nil
}

func (c *TimestampConverter) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.Local
	}
	return c.Location
}
