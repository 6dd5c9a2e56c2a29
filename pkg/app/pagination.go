package app

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig default pagination configuration // 默认分页配置
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 20,
	MaxPageSize:     100,
}

func queryInt(c *gin.Context, key string) int {
	s, ok := c.GetQuery(key)
	if !ok {
		s = c.PostForm(key)
	}
	n, _ := strconv.Atoi(s)
	return n
}

func GetPage(c *gin.Context) int {
	if page := queryInt(c, "page"); page > 0 {
		return page
	}
	return 1
}

// GetPageSize 获取分页大小
func GetPageSize(c *gin.Context) int {
	pageSize := queryInt(c, "pageSize")
	if pageSize <= 0 {
		return DefaultPaginationConfig.DefaultPageSize
	}
	if pageSize > DefaultPaginationConfig.MaxPageSize {
		return DefaultPaginationConfig.MaxPageSize
	}
	return pageSize
}

func GetPageOffset(page, pageSize int) int {
	if page > 0 {
		return (page - 1) * pageSize
	}
	return 0
}

// NewPager 根据请求参数构造分页信息
func NewPager(c *gin.Context, totalRows int) *Pager {
	return &Pager{
		Page:      GetPage(c),
		PageSize:  GetPageSize(c),
		TotalRows: totalRows,
	}
}
