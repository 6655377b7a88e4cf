package chat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	"howett.net/plist"
)

// DecodeKind 富文本解码结果类型
type DecodeKind int

const (
	// DecodeNoContent 没有富文本数据
	DecodeNoContent DecodeKind = iota
	// DecodeDecoded 结构化解析成功并取得文本
	DecodeDecoded
	// DecodeComplexUnparsed 结构化解析成功但无法识别结构
	DecodeComplexUnparsed
	// DecodeRawFallback 结构化解析失败，使用原始字节的尽力解码
	DecodeRawFallback
	// DecodeFailed 解码失败
	DecodeFailed
)

const (
	// ComplexContentPlaceholder 无法识别的 plist 结构
	ComplexContentPlaceholder = "[Complex plist content]"
	// UndecodedContentPlaceholder 富文本完全无法解码
	UndecodedContentPlaceholder = "[Rich content not decoded]"

	richTextKeyPrefix = "NS."
	richTextDataKey   = "NS.data"

	typedStreamHeader = "streamtyped"
	typedStreamClass  = "NSString"

	maxShapeLen = 512
)

var (
	binaryPlistMagic = []byte("bplist00")
	xmlPlistPrefixes = [][]byte{[]byte("<?xml"), []byte("<plist")}
	utf8BOM          = []byte{0xEF, 0xBB, 0xBF}

	errUnsupportedFormat = errors.New("invalid file: not a binary or XML property list")
)

// String 返回解码类型名称
func (k DecodeKind) String() string {
	switch k {
	case DecodeNoContent:
		return "no_content"
	case DecodeDecoded:
		return "decoded"
	case DecodeComplexUnparsed:
		return "complex_unparsed"
	case DecodeRawFallback:
		return "raw_fallback"
	case DecodeFailed:
		return "failed"
	default:
		return fmt.Sprintf("DecodeKind(%d)", int(k))
	}
}

// DecodeResult 单层解码的结果
type DecodeResult struct {
	Kind DecodeKind
	// Text 解码出的文本或占位符
	Text string
	// Detail 诊断信息：无法识别的结构或失败原因
	Detail string
}

// DecodeStructured 尝试把 attributedBody 当作 plist 解析并取出文本
// 只接受二进制和 XML 两种格式
func DecodeStructured(blob []byte) DecodeResult {
	if len(blob) == 0 {
		return DecodeResult{Kind: DecodeNoContent}
	}

	if !isBinaryPlist(blob) && !isXMLPlist(blob) {
		return DecodeResult{Kind: DecodeFailed, Text: UndecodedContentPlaceholder, Detail: errUnsupportedFormat.Error()}
	}

	parsed, err := parsePlist(blob)
	if err != nil {
		return DecodeResult{Kind: DecodeFailed, Text: UndecodedContentPlaceholder, Detail: err.Error()}
	}

	if dict, ok := parsed.(map[string]interface{}); ok {
		for _, key := range richTextKeys(dict) {
			if text, ok := textValue(dict[key]); ok {
				return DecodeResult{Kind: DecodeDecoded, Text: text}
			}
		}
		if text, ok := textValue(dict[richTextDataKey]); ok {
			return DecodeResult{Kind: DecodeDecoded, Text: text}
		}
	} else if text, ok := textValue(parsed); ok {
		return DecodeResult{Kind: DecodeDecoded, Text: text}
	}

	return DecodeResult{Kind: DecodeComplexUnparsed, Text: ComplexContentPlaceholder, Detail: describeShape(parsed)}
}

// DecodeRaw 对原始字节做尽力解码
// NSArchiver typedstream 中的 NSString 会被直接提取，否则按 UTF-8 解码并丢弃非法字节
func DecodeRaw(blob []byte) DecodeResult {
	if len(blob) == 0 {
		return DecodeResult{Kind: DecodeNoContent}
	}

	if text, ok := decodeTypedStream(blob); ok {
		return DecodeResult{Kind: DecodeRawFallback, Text: text}
	}

	text := strings.ReplaceAll(utf8Lossy(blob), "\x00", "")
	if strings.TrimSpace(text) == "" {
		return DecodeResult{Kind: DecodeFailed, Text: UndecodedContentPlaceholder, Detail: "no decodable bytes"}
	}
	return DecodeResult{Kind: DecodeRawFallback, Text: text}
}

// richTextKeys 返回字典中可能携带文本的键，按优先级排序
// NS.string、string、text 优先，其余 NS.* 按字母序；NS.data 单独处理
func richTextKeys(dict map[string]interface{}) []string {
	rank := func(k string) int {
		switch k {
		case "NS.string":
			return 0
		case "string":
			return 1
		case "text":
			return 2
		default:
			return 3
		}
	}

	keys := make([]string, 0, len(dict))
	for k := range dict {
		if k == richTextDataKey {
			continue
		}
		if rank(k) < 3 || strings.HasPrefix(k, richTextKeyPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func textValue(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return utf8Lossy(val), true
	default:
		return "", false
	}
}

// decodeTypedStream 从 NSArchiver typedstream 中提取第一个 NSString
// 类名之后是 5 字节的类型描述，然后是长度前缀：0x81 后跟 2 字节、0x82 后跟 4 字节，否则单字节
func decodeTypedStream(blob []byte) (string, bool) {
	head := blob
	if len(head) > 16 {
		head = head[:16]
	}
	if !bytes.Contains(head, []byte(typedStreamHeader)) {
		return "", false
	}

	idx := bytes.Index(blob, []byte(typedStreamClass))
	if idx < 0 {
		return "", false
	}
	rest := blob[idx+len(typedStreamClass):]
	if len(rest) < 6 {
		return "", false
	}
	rest = rest[5:]

	var n int
	switch rest[0] {
	case 0x81:
		if len(rest) < 3 {
			return "", false
		}
		n = int(binary.LittleEndian.Uint16(rest[1:3]))
		rest = rest[3:]
	case 0x82:
		if len(rest) < 5 {
			return "", false
		}
		n = int(binary.LittleEndian.Uint32(rest[1:5]))
		rest = rest[5:]
	default:
		n = int(rest[0])
		rest = rest[1:]
	}

	if n <= 0 || n > len(rest) {
		return "", false
	}
	return utf8Lossy(rest[:n]), true
}

// parsePlist 解析 plist，截断数据可能让解析器 panic，统一转为错误
func parsePlist(blob []byte) (parsed interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed property list: %v", r)
		}
	}()
	if _, err := plist.Unmarshal(blob, &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func isBinaryPlist(blob []byte) bool {
	return bytes.HasPrefix(blob, binaryPlistMagic)
}

func isXMLPlist(blob []byte) bool {
	b := bytes.TrimPrefix(blob, utf8BOM)
	for _, p := range xmlPlistPrefixes {
		if bytes.HasPrefix(b, p) {
			return true
		}
	}
	return false
}

func utf8Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}

func describeShape(v interface{}) string {
	s := fmt.Sprintf("%T %v", v, v)
	if len(s) > maxShapeLen {
		s = strings.ToValidUTF8(s[:maxShapeLen], "") + "..."
	}
	return s
}
