package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// CeilCents округляет денежную сумму вверх до копейки.
// Работает через десятичное представление, поэтому 1.1 не превращается в 1.11.
func CeilCents(value float64) float64 {
	return decimal.NewFromFloat(value).RoundCeil(2).InexactFloat64()
}
