// Package apperrors описывает ошибки калькулятора, видимые пользователю.
package apperrors

import "net/http"

// Code машиночитаемый код ошибки
type Code string

const (
	// CodePrecondition обязательное поле отсутствует или не является числом
	CodePrecondition Code = "PRECONDITION_FAILED"
	// CodeValidation значения вне допустимых диапазонов
	CodeValidation Code = "VALIDATION_FAILED"
	// CodeCalculation подбор параметра не сошелся
	CodeCalculation Code = "CALCULATION_FAILED"
	// CodeInternal непредвиденная ошибка
	CodeInternal Code = "INTERNAL"
)

// HTTPStatus возвращает HTTP статус для кода
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeCalculation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage возвращает сообщение для пользователя
func (c Code) UserMessage() string {
	switch c {
	case CodePrecondition:
		return "Ошибка расчета: не заполнены обязательные поля"
	case CodeValidation:
		return "Пожалуйста, исправьте следующие ошибки"
	case CodeCalculation:
		return "Не удалось выполнить расчет для заданных параметров. Попробуйте изменить входные данные"
	default:
		return "Внутренняя ошибка сервера"
	}
}
