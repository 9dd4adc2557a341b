package apperrors

import (
	"errors"
	"strings"
)

// Violation описывает нарушение ограничения для одного поля
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error ошибка калькулятора с кодом и списком нарушений
type Error struct {
	Code       Code
	Message    string
	Violations []Violation
	Cause      error
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Unwrap возвращает исходную ошибку
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// UserMessage возвращает текст для пользователя
func (e *Error) UserMessage() string {
	return e.Code.UserMessage()
}

// New создает ошибку с кодом и сообщением
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap создает ошибку, оборачивающую причину
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Invalid создает ошибку валидации со списком нарушений
func Invalid(violations []Violation) *Error {
	return &Error{
		Code:       CodeValidation,
		Message:    "неверные параметры",
		Violations: violations,
	}
}

// CodeOf возвращает код ошибки или CodeInternal, если ошибка не из этого пакета
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// As возвращает *Error из цепочки или оборачивает ошибку как внутреннюю
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(CodeInternal, err.Error(), err)
}
