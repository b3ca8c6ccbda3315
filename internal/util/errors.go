package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误分类，传输层据此映射状态码而无需匹配字符串
type ErrorKind string

const (
	KindInvalidIdentifier   ErrorKind = "InvalidIdentifier"
	KindNotFound            ErrorKind = "NotFound"
	KindUnauthenticated     ErrorKind = "Unauthenticated"
	KindForbidden           ErrorKind = "Forbidden"
	KindInvalidPayload      ErrorKind = "InvalidPayload"
	KindOwnershipMismatch   ErrorKind = "OwnershipMismatch"
	KindQuestionNotFound    ErrorKind = "QuestionNotFound"
	KindPersistenceFailure  ErrorKind = "PersistenceFailure"
	KindDuplicateSubmission ErrorKind = "DuplicateSubmission"
	KindSectionLocked       ErrorKind = "SectionLocked"
	KindSectionClosed       ErrorKind = "SectionClosed"
)

// AppError 包含错误类型、可展示给调用方的消息和可选的底层原因
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 匹配同类型的任意 *AppError，errors.Is(err, ErrNotFound) 与消息和原因无关
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

var (
	ErrInvalidIdentifier   = NewError(KindInvalidIdentifier, "invalid classroom code")
	ErrNotFound            = NewError(KindNotFound, "resource not found")
	ErrUnauthenticated     = NewError(KindUnauthenticated, "unauthenticated")
	ErrForbidden           = NewError(KindForbidden, "access denied")
	ErrInvalidPayload      = NewError(KindInvalidPayload, "invalid payload")
	ErrOwnershipMismatch   = NewError(KindOwnershipMismatch, "section does not belong to this assessment and classroom")
	ErrQuestionNotFound    = NewError(KindQuestionNotFound, "question not found in section")
	ErrPersistenceFailure  = NewError(KindPersistenceFailure, "could not save data")
	ErrDuplicateSubmission = NewError(KindDuplicateSubmission, "section already submitted")
	ErrSectionLocked       = NewError(KindSectionLocked, "section has not started yet")
	ErrSectionClosed       = NewError(KindSectionClosed, "section time is over")
)

// KindOf 返回错误链中第一个 AppError 的类型，
// 未分类的错误视为 PersistenceFailure
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistenceFailure
}

func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindInvalidIdentifier, KindInvalidPayload:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindOwnershipMismatch, KindQuestionNotFound:
		return http.StatusUnprocessableEntity
	case KindDuplicateSubmission, KindSectionLocked, KindSectionClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
