// Package telegram is the conversational front-end: it parses user
// messages into conversion requests and renders replies in Russian.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	tele "gopkg.in/telebot.v3"

	"github.com/langowen/kursbot/deploy/config"
	"github.com/langowen/kursbot/internal/converter"
	"github.com/langowen/kursbot/internal/entities"
)

type Converter interface {
	Convert(ctx context.Context, targetQuery, sourceQuery, amountText string) (*converter.Result, error)
}

type RatesStorage interface {
	Snapshot(ctx context.Context) (entities.Snapshot, error)
}

// запрос на конвертацию: <целевая валюта> <конвертируемая валюта> <сумма>
var convertRegexp = regexp.MustCompile(`^\s*<([^>]+)>\s*<([^>]+)>\s*<([^>]+)>\s*$`)

const helpText = `Привет! Я бот, конвертирующий валюты.

1) Введите команду /values, чтобы ознакомиться со справочником валют.

2) Введите команду /rates, чтобы ознакомиться с курсами валют.

3) Чтобы узнать, какую сумму в конвертируемой валюте надо потратить для приобретения целевой валюты, введите следующую команду:

<целевая валюта> <конвертируемая валюта> <сумма в целевой валюте>

Кстати, в угловых скобках можно вводить как коды, так и русские или английские названия валют.

А еще, если вы допустите опечатку в названии валюты, я все равно постараюсь это название распознать!

Чтобы повторно вывести эту справку, наберите /start или /help`

type Bot struct {
	bot       *tele.Bot
	converter Converter
	storage   RatesStorage
	timeout   time.Duration
}

func NewBot(cfg *config.Config, conv Converter, storage RatesStorage) (*Bot, error) {
	const op = "telegram.NewBot"

	pref := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.PollTimeout},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	bot := &Bot{
		bot:       b,
		converter: conv,
		storage:   storage,
		timeout:   cfg.Feeds.Timeout,
	}
	bot.register()

	return bot, nil
}

func (b *Bot) register() {
	b.bot.Handle("/start", b.handleHelp)
	b.bot.Handle("/help", b.handleHelp)
	b.bot.Handle("/values", b.handleValues)
	b.bot.Handle("/rates", b.handleRates)
	b.bot.Handle(tele.OnText, b.handleConvert)
}

// Start runs the long poller until ctx is canceled.
func (b *Bot) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		b.bot.Start()
		close(done)
	}()

	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()

	return done
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText)
}

func (b *Bot) handleValues(c tele.Context) error {
	ctx, cancel := b.requestContext()
	defer cancel()

	snap, err := b.storage.Snapshot(ctx)
	if err != nil {
		slog.Error("vocabulary request failed", "error", err)
		return c.Send(UserMessage(err))
	}

	return c.Send(renderVocabulary(snap))
}

func (b *Bot) handleRates(c tele.Context) error {
	ctx, cancel := b.requestContext()
	defer cancel()

	snap, err := b.storage.Snapshot(ctx)
	if err != nil {
		slog.Error("rates request failed", "error", err)
		return c.Send(UserMessage(err))
	}

	return c.Send(renderRates(snap))
}

func (b *Bot) handleConvert(c tele.Context) error {
	match := convertRegexp.FindStringSubmatch(c.Text())
	if match == nil {
		return c.Send("Некорректный формат запроса на конвертацию валют, наберите /help")
	}

	ctx, cancel := b.requestContext()
	defer cancel()

	result, err := b.converter.Convert(ctx, match[1], match[2], match[3])
	if err != nil {
		slog.Error("conversion failed", "query", c.Text(), "error", err)
		return c.Send(UserMessage(err))
	}

	return c.Send(result.String())
}

func (b *Bot) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

const ruler = "-----------------------------------------------------------"

func renderVocabulary(snap entities.Snapshot) string {
	rows := make([]string, 0, len(snap)+5)

	rows = append(rows,
		"СПРАВОЧНИК ВАЛЮТ",
		"(Код валюты, русское и английское названия)",
		ruler,
	)

	for _, c := range snap {
		rows = append(rows, fmt.Sprintf("%s, %s, %s", c.Code, c.RusName, c.EngName))
	}

	rows = append(rows, ruler, "Чтобы вывести справку, наберите /start или /help")

	return strings.Join(rows, "\n")
}

func renderRates(snap entities.Snapshot) string {
	rows := make([]string, 0, len(snap)+5)

	rows = append(rows,
		"КУРСЫ ВАЛЮТ",
		"(за одну единицу валюты, в рублях)",
		ruler,
	)

	for _, c := range snap {
		rows = append(rows, fmt.Sprintf("%s: %v", c.Code, c.UnitRate))
	}

	rows = append(rows, ruler, "Чтобы вывести справку, наберите /start или /help")

	return strings.Join(rows, "\n")
}
