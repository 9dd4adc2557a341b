package calculations

import (
	"fmt"

	"github.com/cloud-ru/mcp-living-annuity-go/pkg/utils"
)

const (
	solverDelta      = 1e-10
	solverDeltaCount = 18
	solverRetryCount = 10
	solverMaxSteps   = 1000

	// DefaultInitialValue стартовое значение подбора, если вызывающий не задал своего
	DefaultInitialValue = 0.1
)

// Objective отображает кандидата в отношение к цели; искомое отношение равно 1
type Objective func(value float64) float64

// Solution результат подбора параметра
type Solution struct {
	Value float64
	// Ratio значение objective в найденной точке
	Ratio float64
	// Tolerance допуск δ, при котором значение было принято
	Tolerance float64
}

// Widened сообщает, что значение принято с допуском шире исходного
func (s Solution) Widened() bool {
	return s.Tolerance > solverDelta
}

// SolveParameter подбирает значение, при котором objective попадает в [1-δ, 1].
func SolveParameter(objective Objective, initialIncrement, initialValue float64) (float64, error) {
	solution, err := Solve(objective, initialIncrement, initialValue)
	if err != nil {
		return 0, err
	}
	return solution.Value, nil
}

// Solve подбирает значение, при котором objective попадает в [1-δ, 1], и
// сообщает, с каким допуском оно принято.
//
// Поиск шаговый: при перелете шаг откатывается и делится пополам, при недолете
// значение сдвигается на текущий шаг. Каждая повторная попытка удваивает
// начальный шаг, а после исчерпания попыток допуск δ растет в 10 раз.
// При δ >= 1 принимается любое неотрицательное значение с отношением не выше 1,
// такой результат отличается по Tolerance.
// Направление определяется по двум первым точкам: если objective растет вместе
// со значением, перелетом считается отношение выше 1. При равенстве считается,
// что objective убывает.
func Solve(objective Objective, initialIncrement, initialValue float64) (Solution, error) {
	if objective == nil {
		return Solution{}, fmt.Errorf("%w: не задана целевая функция", ErrPrecondition)
	}
	if !utils.IsFinite(initialIncrement) || initialIncrement <= 0 {
		return Solution{}, fmt.Errorf("%w: начальный шаг должен быть положительным", ErrPrecondition)
	}
	if !utils.IsFinite(initialValue) {
		return Solution{}, fmt.Errorf("%w: начальное значение", ErrPrecondition)
	}

	increasing := objective(initialValue+initialIncrement) > objective(initialValue)

	delta := solverDelta
	for d := 0; d < solverDeltaCount; d++ {
		lower := 1.0 - delta
		for r := 0; r <= solverRetryCount; r++ {
			value := initialValue
			increment := initialIncrement * float64(uint64(1)<<r)

			for i := 0; i < solverMaxSteps; i++ {
				ratio := objective(value)
				if ratio >= lower && ratio <= 1.0 {
					if value < 0 {
						return Solution{}, fmt.Errorf("%w: найдено отрицательное значение %.4f", ErrConvergence, value)
					}
					return Solution{Value: value, Ratio: ratio, Tolerance: delta}, nil
				}

				overshoot := ratio < lower
				if increasing {
					overshoot = ratio > 1.0
				}
				if overshoot {
					value -= increment
					increment /= 2
				} else {
					value += increment
				}
			}
		}
		delta *= 10
	}

	return Solution{}, ErrConvergence
}

// SolveMoneyParameter подбирает денежное значение и округляет его вверх до копейки.
// Ratio и Tolerance относятся к неокругленному значению.
func SolveMoneyParameter(objective Objective, initialIncrement, initialValue float64) (Solution, error) {
	solution, err := Solve(objective, initialIncrement, initialValue)
	if err != nil {
		return Solution{}, err
	}
	solution.Value = utils.CeilCents(solution.Value)
	return solution, nil
}
