package app

// 版本信息变量，由构建时通过 -ldflags 注入
var (
	Version   string = "0.1.0"
	GitTag    string = "dev"
	BuildTime string = "2026-01-01T00:00:00+0000"
)

// Name 应用名称
const Name = "Pulse Beyond"
