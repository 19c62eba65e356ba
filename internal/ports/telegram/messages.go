package telegram

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/langowen/kursbot/internal/entities"
)

// UserMessage maps a core error onto the Russian text shown to the user.
// Unknown errors get a generic answer, the details stay in the logs.
func UserMessage(err error) string {
	var unknown *entities.UnknownCurrencyError

	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("Не найдена валюта, название или код которой соответствуют запросу %q", unknown.Query)
	case errors.Is(err, entities.ErrInvalidAmount):
		return "Количество целевой валюты должно быть числом"
	case errors.Is(err, entities.ErrNonPositiveAmount):
		return "Количество целевой валюты должно быть больше нуля"
	case errors.Is(err, entities.ErrSameCurrency):
		return "Целевая валюта должна отличаться от конвертируемой"
	case errors.Is(err, entities.ErrUpstreamFetch):
		return "Не удалось получить курсы валют с сайта ЦБ РФ, попробуйте позже"
	case errors.Is(err, entities.ErrUpstreamParse):
		return "Не удалось разобрать данные, полученные с сайта ЦБ РФ, попробуйте позже"
	}

	return "Что-то пошло не так, попробуйте позже"
}
