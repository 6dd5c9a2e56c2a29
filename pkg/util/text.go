package util

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nonSlug       = regexp.MustCompile(`[^a-z0-9]+`)
	quoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'",
		"“", `"`, "”", `"`,
		"–", "-", "—", "-",
	)
)

// Slugify lowercases text, collapses non alphanumerics into "-" and caps the result at 60 bytes
// Slugify 生成 URL 友好的标识，最长 60 字节
func Slugify(text string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

// NormalizeQuotes 将弯引号与长短破折号替换为 ASCII 字符
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// DecodeEntities 解码 HTML 实体并去掉首尾空白
func DecodeEntities(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// Excerpt cuts s to n runes without a suffix
// Excerpt 截取前 n 个字符
func Excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
