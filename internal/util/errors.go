package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNoSession        = errors.New("no active session")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnknownResource  = errors.New("unknown resource")
	ErrReadOnlyResource = errors.New("resource is read-only")
)

// GenericRequestFailure 后端没有返回 message 时展示的文案
const GenericRequestFailure = "Request failed. Please try again."

// AuthError 登录被拒绝，或后端没有返回可解析的令牌
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError 提交前发现的必填字段缺失
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// RequestError 后端返回了非 2xx 响应
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GenericRequestFailure
	}
	return msg
}

// Is 让 401 响应可以用 errors.Is(err, ErrUnauthorized) 判断
func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ParseError 存储的会话 JSON 无法解析，按“无会话”处理
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
