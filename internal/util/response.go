package util

import (
	"errors"
	"net/http"
	"skill_console/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HandleError 把错误分类映射为响应；错误同时记录到 gin 上下文，
// 以便中间件在后端返回 401 时注销当前会话
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var authErr *AuthError
	var validationErr *ValidationError
	var requestErr *RequestError

	switch {
	case errors.As(err, &validationErr):
		ErrorWithData(c, http.StatusBadRequest, validationErr.Error(), gin.H{"fields": validationErr.Fields})
	case errors.As(err, &authErr):
		Error(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNoSession):
		Unauthorized(c)
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case errors.Is(err, ErrUnknownResource):
		NotFound(c)
	case errors.Is(err, ErrUnsupportedImportFile):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrReadOnlyResource):
		Error(c, http.StatusMethodNotAllowed, err.Error())
	case errors.As(err, &requestErr):
		status := requestErr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		Error(c, status, requestErr.Error())
	default:
		LogInternalError(c, err)
	}
}
