// Package errors 提供应用程序统一的错误码和错误类型
package errors

import (
	"fmt"

	"github.com/snapnote/snapnote/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternal       ErrorCode = 1000 // 内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrNotFound       ErrorCode = 1002 // 资源未找到

	// 笔记相关错误码 (2000-2999)
	ErrNoteNotFound      ErrorCode = 2000 // 笔记未找到
	ErrNoteSaveFailed    ErrorCode = 2001 // 笔记保存失败
	ErrNoteDeleteFailed  ErrorCode = 2002 // 笔记删除失败
	ErrNoteQueryFailed   ErrorCode = 2003 // 笔记查询失败
	ErrFolderQueryFailed ErrorCode = 2004 // 文件夹查询失败

	// 提醒调度相关错误码 (3000-3999)
	ErrReminderParseFailed    ErrorCode = 3000 // 提醒时间解析失败
	ErrReminderScheduleFailed ErrorCode = 3001 // 提醒调度失败
	ErrReminderNotFound       ErrorCode = 3002 // 提醒任务未找到
	ErrSchedulerStopped       ErrorCode = 3003 // 调度器已停止

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseConnection ErrorCode = 4000 // 数据库连接错误
	ErrDatabaseQuery      ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseInsert     ErrorCode = 4002 // 数据库插入错误
	ErrDatabaseUpdate     ErrorCode = 4003 // 数据库更新错误
	ErrDatabaseDelete     ErrorCode = 4004 // 数据库删除错误
	ErrRecordNotFound     ErrorCode = 4005 // 记录未找到

	// 偏好存储相关错误码 (5000-5999)
	ErrPreferenceReadFailed  ErrorCode = 5000 // 偏好读取失败
	ErrPreferenceWriteFailed ErrorCode = 5001 // 偏好写入失败
)

// AppError 应用错误结构体
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链式判断
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithOriginalError 添加原始错误
func (e *AppError) WithOriginalError(err error) *AppError {
	e.OriginalError = err
	if e.Details == "" && err != nil {
		e.Details = err.Error()
	}
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewByCode 根据错误码创建应用错误，消息取自i18n语言包
func NewByCode(code ErrorCode) *AppError {
	return New(code, GetErrorMessage(code))
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// WrapByCode 根据错误码包装原始错误，消息取自i18n语言包
func WrapByCode(code ErrorCode, err error) *AppError {
	return Wrap(code, GetErrorMessage(code), err)
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:       "success",
	ErrInternal:      "internal_error",
	ErrInvalidParams: "invalid_params",
	ErrNotFound:      "not_found",

	ErrNoteNotFound:      "note_not_found",
	ErrNoteSaveFailed:    "note_save_failed",
	ErrNoteDeleteFailed:  "note_delete_failed",
	ErrNoteQueryFailed:   "note_query_failed",
	ErrFolderQueryFailed: "folder_query_failed",

	ErrReminderParseFailed:    "reminder_parse_failed",
	ErrReminderScheduleFailed: "reminder_schedule_failed",
	ErrReminderNotFound:       "reminder_not_found",
	ErrSchedulerStopped:       "scheduler_stopped",

	ErrDatabaseConnection: "database_connection",
	ErrDatabaseQuery:      "database_query",
	ErrDatabaseInsert:     "database_insert",
	ErrDatabaseUpdate:     "database_update",
	ErrDatabaseDelete:     "database_delete",
	ErrRecordNotFound:     "record_not_found",

	ErrPreferenceReadFailed:  "preference_read_failed",
	ErrPreferenceWriteFailed: "preference_write_failed",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
