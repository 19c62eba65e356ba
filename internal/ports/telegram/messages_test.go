package telegram

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/langowen/kursbot/internal/entities"
)

func TestUserMessage(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	t.Run("UnknownCurrencyEchoesQuery", func(t *testing.T) {
		err := errors.Wrap(&entities.UnknownCurrencyError{Query: "Xyzzyqq"}, "rates.Storage.Resolve")
		asserts.Contains(UserMessage(err), `"Xyzzyqq"`)
	})

	t.Run("WrappedSentinels", func(t *testing.T) {
		cases := []struct {
			err      error
			fragment string
		}{
			{entities.ErrInvalidAmount, "должно быть числом"},
			{entities.ErrNonPositiveAmount, "больше нуля"},
			{entities.ErrSameCurrency, "должна отличаться"},
			{entities.ErrUpstreamFetch, "Не удалось получить"},
			{entities.ErrUpstreamParse, "Не удалось разобрать"},
		}

		for _, tc := range cases {
			wrapped := errors.Wrap(tc.err, "converter.Service.Convert")
			asserts.Contains(UserMessage(wrapped), tc.fragment)
		}
	})

	t.Run("UnknownErrorGetsGenericText", func(t *testing.T) {
		asserts.Contains(UserMessage(errors.New("boom")), "попробуйте позже")
	})
}

func TestConvertRegexp(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	match := convertRegexp.FindStringSubmatch("<Доллар США> <Евро> <10>")
	asserts.NotNil(match)
	asserts.Equal("Доллар США", match[1])
	asserts.Equal("Евро", match[2])
	asserts.Equal("10", match[3])

	asserts.Nil(convertRegexp.FindStringSubmatch("USD EUR 10"))
	asserts.Nil(convertRegexp.FindStringSubmatch("<USD> <EUR>"))
}

func TestRenderVocabulary(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	snap := entities.Snapshot{
		{Code: "USD", RusName: "Доллар США", EngName: "US Dollar", UnitRate: 90},
		entities.RefCurrency(),
	}

	text := renderVocabulary(snap)
	asserts.Contains(text, "СПРАВОЧНИК ВАЛЮТ")
	asserts.Contains(text, "USD, Доллар США, US Dollar")
	asserts.Contains(text, "RUR, Российский рубль, Russian Ruble")
}
