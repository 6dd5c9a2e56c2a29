package code

import (
	"fmt"
	"sync/atomic"
)

// lang 存储一条消息的中英文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

var lng atomic.Value

func init() {
	lng.Store(FALLBACK_LNG)
}

// GetMessage returns the message in the global language, falling back to English
// GetMessage 按全局语言返回消息，缺失时回退到英文
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In 返回指定语言的消息
func (l lang) In(language string) string {
	var msg string
	switch language {
	case "zh_cn":
		msg = l.zh_cn
	default:
		msg = l.en
	}
	if msg == "" {
		msg = l.en
	}
	if msg == "" {
		return fmt.Sprintf("No message available for language: %s", language)
	}
	return msg
}

// SetGlobalDefaultLang sets the global default language
// 设置全局默认语言，非法值会回退到英文并返回错误
func SetGlobalDefaultLang(language string) error {
	for _, l := range supportedLanguages {
		if l == language {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return fmt.Errorf("unsupported language type %q, set defaulting to %s", language, FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	return lng.Load().(string)
}
