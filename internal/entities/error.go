package entities

import (
	"errors"
	"fmt"
)

// Типичные ошибки сервиса. Фронты (бот, HTTP) сами превращают их в текст
// для пользователя, ядро оперирует только этими значениями.
var (
	ErrUpstreamFetch     = errors.New("upstream feed is unreachable")
	ErrUpstreamParse     = errors.New("upstream document is malformed")
	ErrInvalidAmount     = errors.New("amount is not a number")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrSameCurrency      = errors.New("target and source currencies are the same")
	ErrUnknownCurrency   = errors.New("currency not found")
)

// UnknownCurrencyError keeps the original query so the presentation
// layer can echo it back. Unwraps to ErrUnknownCurrency.
type UnknownCurrencyError struct {
	Query string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("no currency matches query %q", e.Query)
}

func (e *UnknownCurrencyError) Unwrap() error {
	return ErrUnknownCurrency
}
