package middleware

import (
	"strings"

	"github.com/pulse-beyond/pulse-beyond/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// normalizeLang maps "zh-CN", "zh" and friends onto the keys the translator and code table use
func normalizeLang(s string) string {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if s == "zh" || strings.HasPrefix(s, "zh_") {
		return "zh_cn"
	}
	if i := strings.IndexAny(s, ",;"); i > 0 {
		return normalizeLang(s[:i])
	}
	return s
}

// LangWithTranslator 创建带翻译器的语言中间件（支持依赖注入）
// 优先级：query lang > header lang > Accept-Language
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string
		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); s != "" {
			lang = s
		} else {
			lang = c.GetHeader("Accept-Language")
		}
		lang = normalizeLang(lang)

		if uni != nil {
			// validator translations register "zh", not "zh_cn"
			key := lang
			if key == "zh_cn" {
				key = "zh"
			}
			if trans, found := uni.GetTranslator(key); found {
				c.Set("trans", trans)
			} else {
				trans, _ := uni.GetTranslator("en")
				c.Set("trans", trans)
			}
		}

		_ = code.SetGlobalDefaultLang(lang)

		c.Next()
	}
}
