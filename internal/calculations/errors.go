package calculations

import "errors"

var (
	// ErrPrecondition возвращается, когда обязательный вход отсутствует или не является числом
	ErrPrecondition = errors.New("нарушено предусловие расчета")

	// ErrConvergence возвращается, когда подбор параметра исчерпал все попытки
	ErrConvergence = errors.New("расчет не сошелся")
)
