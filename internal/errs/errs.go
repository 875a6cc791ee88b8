// Package errs 定义领域错误分类
// 处理器根据分类映射 HTTP 状态码，存在性与权限不做区分
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 资源不存在或不属于调用者
	ErrNotFound = errors.New("not found")
	// ErrInvalidMessage 消息为空或仅含空白字符
	ErrInvalidMessage = errors.New("message cannot be empty")
	// ErrValidation 参数校验失败
	ErrValidation = errors.New("validation failed")
)

// NotFoundf 构造带上下文的 NotFound 错误
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Validationf 构造带上下文的校验错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// IsNotFound 判断是否为 NotFound 错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidMessage 判断是否为空消息错误
func IsInvalidMessage(err error) bool {
	return errors.Is(err, ErrInvalidMessage)
}
