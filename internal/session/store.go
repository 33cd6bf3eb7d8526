package session

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("session entry not found")

// 每个浏览器会话保存两项字符串：不透明的 bearer 令牌和序列化后的会话展示对象
const (
	KeyToken   = "token"
	KeySession = "session"
)

// Store 会话存储，键按浏览器会话 ID 分区
type Store interface {
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	Clear(ctx context.Context, sid string) error
}
