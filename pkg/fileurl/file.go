package fileurl

import (
	"os"
	"strings"
)

// IsExist reports whether the path exists
// IsExist 判断路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil || !os.IsNotExist(err)
}

// PathSuffixCheckAdd 确保路径以 suffix 结尾，空路径原样返回
func PathSuffixCheckAdd(p string, suffix string) string {
	if p == "" || strings.HasSuffix(p, suffix) {
		return p
	}
	return p + suffix
}
