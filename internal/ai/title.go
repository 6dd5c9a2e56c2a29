package ai

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SentenceCase converts a Title Case headline to sentence case.
// Only titles with more than two words where over 60% start with a capital letter are touched;
// the first word and all-caps words of at most four characters are kept.
//
// SentenceCase 将标题式大小写转为句子式大小写
func SentenceCase(s string) string {
	if s == "" {
		return s
	}
	words := strings.Split(s, " ")

	capitalized := 0
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if w != "" && unicode.IsUpper(r) {
			capitalized++
		}
	}
	if len(words) <= 2 || float64(capitalized)/float64(len(words)) <= 0.6 {
		return s
	}

	for i, w := range words {
		if i == 0 {
			continue
		}
		if w == strings.ToUpper(w) && utf8.RuneCountInString(w) <= 4 {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToLower(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// normalizeTitles applies SentenceCase and drops blank options
func normalizeTitles(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, SentenceCase(t))
	}
	return out
}
