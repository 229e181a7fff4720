package domain

import (
	"errors"
	"fmt"
)

const (
	ErrCodeInvalidPath       = "invalid_path"
	ErrCodeMissingSource     = "missing_source"
	ErrCodeOSFailure         = "os_failure"
	ErrCodeMalformedMetadata = "malformed_metadata"
	ErrCodeInvalidInput      = "invalid_input"
	ErrCodeConfirmRequired   = "confirmation_required"
	ErrCodeHistoryEmpty      = "history_empty"
)

// Error 是用户操作级别的结构化错误（带 error_code 与出错路径）。
//
// 约束：Error 只在用户触发的操作边界返回，不会让进程退出。
type Error struct {
	Code string
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = defaultMessage(e.Code)
	}
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s：%s %q：%v", e.Code, msg, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s：%s %q", e.Code, msg, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s：%s：%v", e.Code, msg, e.Err)
	default:
		return fmt.Sprintf("%s：%s", e.Code, msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func defaultMessage(code string) string {
	switch code {
	case ErrCodeInvalidPath:
		return "目录不存在或不是目录"
	case ErrCodeMissingSource:
		return "源不存在"
	case ErrCodeOSFailure:
		return "文件系统操作失败"
	case ErrCodeMalformedMetadata:
		return "元数据无法解析"
	case ErrCodeInvalidInput:
		return "输入无效"
	case ErrCodeConfirmRequired:
		return "需要确认"
	case ErrCodeHistoryEmpty:
		return "没有可返回的目录"
	default:
		return "未知错误"
	}
}

// ErrorCode 从 error 中提取 error_code；若不是 *Error 则返回空串。
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func InvalidPath(path string) error {
	return &Error{Code: ErrCodeInvalidPath, Path: path}
}

func MissingSource(path, msg string) error {
	return &Error{Code: ErrCodeMissingSource, Path: path, Msg: msg}
}

func OSFailure(path, msg string, err error) error {
	return &Error{Code: ErrCodeOSFailure, Path: path, Msg: msg, Err: err}
}

// MalformedMetadata 表示元数据文件存在但无法解析；调用方按空处理，只用于日志与提示。
func MalformedMetadata(path string, err error) error {
	return &Error{Code: ErrCodeMalformedMetadata, Path: path, Err: err}
}

func InvalidInput(msg string) error {
	return &Error{Code: ErrCodeInvalidInput, Msg: msg}
}
