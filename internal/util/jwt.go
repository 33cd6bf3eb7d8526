package util

import (
	"skill_console/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// DecodeTokenPayload 只解码载荷用于展示，不校验签名；真正的鉴权在后端
func DecodeTokenPayload(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, &ParseError{Source: "token payload", Err: err}
	}
	return claims, nil
}

func GetSessionFromContext(c *gin.Context) *model.Session {
	v, exists := c.Get(CtxSession)
	if !exists {
		return nil
	}
	session, ok := v.(*model.Session)
	if !ok {
		return nil
	}
	return session
}

func GetTokenFromContext(c *gin.Context) string {
	return c.GetString(CtxToken)
}

func GetSessionIDFromContext(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}
