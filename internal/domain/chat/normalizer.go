package chat

import (
	"database/sql"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// usCountryCode 只处理固定的美国区号前缀，不做通用的 E.164 解析
const usCountryCode = "+1"

// NormalizeIdentifier 将会话标识（手机号、邮箱或空）转换为可用作目录名的安全字符串
// 结果只包含 ASCII 字母、数字和下划线，不会失败
func NormalizeIdentifier(id sql.NullString) string {
	if !id.Valid || id.String == "" {
		return OrphanedConversation
	}

	s := strings.TrimPrefix(id.String, usCountryCode)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	return toASCII(b.String())
}

// toASCII NFKD 分解后丢弃所有非 ASCII 字符
func toASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		// 转换失败时退回逐字符过滤
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, s)
	}
	return out
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
