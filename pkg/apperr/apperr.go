// Package apperr 定义业务错误分类，供 service 层返回、handler 层映射为 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
)

// 错误分类，使用 errors.Is 判断
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Error 携带操作名与面向调用方的消息
type Error struct {
	Op      string // e.g. "order.Create"
	Kind    error  // one of the sentinel errors above
	Message string // client-visible message
	Err     error  // optional cause
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return e.Message
	}
}

// Unwrap 同时暴露分类与底层原因
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newErr(kind error, op, msg string) *Error {
	return &Error{Op: op, Kind: kind, Message: msg}
}

func NotFound(op, msg string) *Error        { return newErr(ErrNotFound, op, msg) }
func InvalidArgument(op, msg string) *Error { return newErr(ErrInvalidArgument, op, msg) }
func Conflict(op, msg string) *Error        { return newErr(ErrConflict, op, msg) }
func Forbidden(op, msg string) *Error       { return newErr(ErrForbidden, op, msg) }
func Unauthorized(op, msg string) *Error    { return newErr(ErrUnauthorized, op, msg) }

// Wrap 为错误附加底层原因
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// Message 返回可展示给客户端的消息；非业务错误返回空串
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// IsDomain 判断是否为业务分类错误（非 I/O 故障）
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUnauthorized)
}
