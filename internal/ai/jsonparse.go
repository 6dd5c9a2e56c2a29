package ai

import (
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/pulse-beyond/pulse-beyond/pkg/util"
)

var (
	// ErrNoJSONObject 响应中不存在 JSON 对象
	ErrNoJSONObject = errors.New("no JSON object found in LLM response")
	// ErrNoValidJSON 无法提取合法 JSON
	ErrNoValidJSON = errors.New("could not extract valid JSON from LLM response")
	// ErrNoJSONArray 响应中不存在 JSON 数组
	ErrNoJSONArray = errors.New("no JSON array found in LLM response")

	fenceOpen  = regexp.MustCompile("(?i)^```(?:json)?\\s*\\n?")
	fenceClose = regexp.MustCompile("(?i)\\n?```\\s*$")
	arrayBlock = regexp.MustCompile(`\[[\s\S]*\]`)
	objectItem = regexp.MustCompile(`\{[\s\S]*?\}\s*[,\]]`)
)

// ParseJSON decodes the JSON object in a model response into v.
// It tries the raw text, then the text without a markdown fence, then the first balanced {...} block.
//
// ParseJSON 从模型输出中解析 JSON 对象：原文、去掉代码块标记、首个括号配平的对象
func ParseJSON(raw string, v any) error {
	if err := sonic.UnmarshalString(raw, v); err == nil {
		return nil
	}

	stripped := fenceClose.ReplaceAllString(fenceOpen.ReplaceAllString(raw, ""), "")
	if err := sonic.UnmarshalString(stripped, v); err == nil {
		return nil
	}

	block, err := balancedObject(raw)
	if err != nil {
		return err
	}
	if err := sonic.UnmarshalString(block, v); err != nil {
		return errors.Wrap(ErrNoValidJSON, err.Error())
	}
	return nil
}

// balancedObject returns the first {...} block whose braces balance outside of string literals
func balancedObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escape := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", ErrNoValidJSON
}

// ParseArray decodes a JSON array of T from a model response.
// Typographic quotes and dashes are normalized first; when the array as a whole is broken,
// every object that still decodes on its own is kept.
//
// ParseArray 解析 JSON 数组；整体解析失败时逐个挽救仍然合法的对象
func ParseArray[T any](raw string) ([]T, error) {
	match := arrayBlock.FindString(raw)
	if match == "" {
		return nil, ErrNoJSONArray
	}
	var items []T
	if err := sonic.UnmarshalString(match, &items); err == nil {
		return items, nil
	}
	cleaned := util.NormalizeQuotes(match)
	items = nil
	if err := sonic.UnmarshalString(cleaned, &items); err == nil {
		return items, nil
	}
	items = nil

	for _, m := range objectItem.FindAllString(cleaned, -1) {
		obj := strings.TrimRight(strings.TrimSpace(m), ",]")
		obj = strings.TrimSpace(obj)
		var item T
		if err := sonic.UnmarshalString(obj, &item); err == nil {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, ErrNoValidJSON
	}
	return items, nil
}
