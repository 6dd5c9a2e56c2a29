package util

import (
	"strconv"
	"strings"
)

// ParseSize parses size string like "25MB", "512KB", "1024B" to bytes
// ParseSize 将大小字符串（如 "25MB", "512KB", "1024B"）解析为字节数
func ParseSize(sizeStr string, defaultSize int64) int64 {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return defaultSize
	}

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(sizeStr, "MB"):
		multiplier = 1 << 20
		sizeStr = strings.TrimSuffix(sizeStr, "MB")
	case strings.HasSuffix(sizeStr, "KB"):
		multiplier = 1 << 10
		sizeStr = strings.TrimSuffix(sizeStr, "KB")
	case strings.HasSuffix(sizeStr, "B"):
		sizeStr = strings.TrimSuffix(sizeStr, "B")
	}

	size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 10, 64)
	if err != nil || size <= 0 {
		return defaultSize
	}
	return size * multiplier
}
