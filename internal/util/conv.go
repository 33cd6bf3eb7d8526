package util

import (
	"strconv"
	"strings"
)

// MustParseUint 解析失败或超出 uint32 时返回 0，0 不是合法 ID
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint(id)
}

// QueryInt 查询参数缺失或非数字时返回 def
func QueryInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
