// Package convert 结构体转换工具
package convert

import (
	"github.com/jinzhu/copier"
)

// StructAssign copies same-named fields from src into dst and returns dst
// StructAssign 把 src 与 dst 同名字段的值复制到 dst 中
func StructAssign(src any, dst any) any {
	_ = copier.Copy(dst, src)
	return dst
}

// SliceAssign converts every element of src with fn
// SliceAssign 逐个转换切片元素
func SliceAssign[S any, D any](src []S, fn func(S) D) []D {
	out := make([]D, 0, len(src))
	for _, s := range src {
		out = append(out, fn(s))
	}
	return out
}
