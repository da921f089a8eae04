package money

import "fmt"

// Cents денежная сумма в минимальных единицах валюты (центах).
// Вся арифметика целочисленная, без float - суммы счетов должны
// восстанавливаться из строк счета байт-в-байт.
type Cents int64

// Mul умножает сумму на количество
func (c Cents) Mul(n int64) Cents {
	return Cents(int64(c) * n)
}

// Neg возвращает сумму с противоположным знаком
func (c Cents) Neg() Cents {
	return -c
}

// IsNegative возвращает true для отрицательной суммы
func (c Cents) IsNegative() bool {
	return c < 0
}

// Dollars возвращает сумму в долларах (только для отображения)
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// String форматирует сумму как "65.00" / "-30.00"
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// PercentHalfUp вычисляет percent% от суммы с округлением до цента.
// Половина цента округляется вверх (round-half-up); для отрицательных
// сумм - от нуля, чтобы сторнирующая строка зеркалила исходную.
func PercentHalfUp(c Cents, percent int64) Cents {
	raw := int64(c) * percent
	if raw >= 0 {
		return Cents((raw + 50) / 100)
	}
	return Cents((raw - 50) / 100)
}

// DivHalfUp делит сумму на n с округлением половины вверх.
// Используется для фиксации стоимости одного кредита пакета.
func DivHalfUp(c Cents, n int64) Cents {
	if n == 0 {
		return 0
	}
	raw := int64(c)
	if (raw >= 0) == (n > 0) {
		return Cents((raw + n/2) / n)
	}
	return Cents((raw - n/2) / n)
}
