package beacon

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// UTF8Encode re-encodes text one byte per UTF-8 code unit.
//
// Text is walked as UTF-16 code units and each unit is expanded to at most
// three bytes, so a character above U+FFFF comes out as two 3-byte sequences
// (one per surrogate half) rather than a single 4-byte sequence.
func UTF8Encode(text string) string {
	if text == "" {
		return ""
	}

	units := utf16.Encode([]rune(text))
	buf := make([]byte, 0, len(units)*3)
	for _, c := range units {
		switch {
		case c < 0x80:
			buf = append(buf, byte(c))
		case c < 0x800:
			buf = append(buf,
				byte(c>>6)|0xC0,
				byte(c&0x3F)|0x80)
		default:
			buf = append(buf,
				byte(c>>12)|0xE0,
				byte((c>>6)&0x3F)|0x80,
				byte(c&0x3F)|0x80)
		}
	}
	return string(buf)
}

// Base64Encode returns the standard padded base64 of the UTF8Encode form of text.
// Empty input is returned unchanged.
func Base64Encode(text string) string {
	if text == "" {
		return text
	}
	return base64.StdEncoding.EncodeToString([]byte(UTF8Encode(text)))
}

// BuildQuery serializes params into key=value pairs joined by &.
// Keys and values are unescaped first, in case the caller already
// percent-encoded them, then escaped again. Pairs are sorted by key.
func BuildQuery(params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(encodeComponent(k))
		sb.WriteByte('=')
		sb.WriteString(encodeComponent(formatValue(params[k])))
	}
	return sb.String()
}

func encodeComponent(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		decoded = s
	}
	return strings.ReplaceAll(url.QueryEscape(decoded), "+", "%20")
}

// formatValue renders a parameter value the way it appears on the wire.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case uint:
		return strconv.FormatUint(uint64(value), 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case uint32:
		return strconv.FormatUint(uint64(value), 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	default:
		return fmt.Sprint(value)
	}
}
