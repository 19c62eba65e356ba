package app

import (
	"context"
	"log"
	"log/slog"
	"os"

	redisPack "github.com/redis/go-redis/v9"

	"github.com/langowen/kursbot/deploy/config"
	"github.com/langowen/kursbot/internal/adapter/api_client/cbr"
	redisStorage "github.com/langowen/kursbot/internal/adapter/storage/redis"
	"github.com/langowen/kursbot/internal/converter"
	"github.com/langowen/kursbot/internal/ports/http/public"
	"github.com/langowen/kursbot/internal/ports/telegram"
	"github.com/langowen/kursbot/internal/rates"
)

type App struct {
	cfg *config.Config
}

func New(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// Start wires the rates storage, the conversion service and the enabled
// fronts (HTTP always, Telegram when a token is configured). The returned
// channel closes after every front has shut down.
func (a *App) Start(ctx context.Context) <-chan struct{} {
	a.initLogger()
	slog.Info("Logger initialized")

	storage := a.initStorage(ctx)
	slog.Info("Rates storage initialized")

	conv := converter.NewService(storage)
	slog.Info("Conversion service initialized")

	serverDone := public.StartServer(ctx, conv, storage, a.cfg)
	slog.Info("server started")

	var botDone <-chan struct{}
	if a.cfg.Telegram.Token != "" {
		botDone = a.startBot(ctx, conv, storage)
		slog.Info("telegram bot started")
	}

	done := make(chan struct{})
	go func() {
		<-serverDone
		if botDone != nil {
			<-botDone
		}
		close(done)
	}()

	return done
}

func (a *App) initLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

func (a *App) initStorage(ctx context.Context) *rates.Storage {
	feed := cbr.NewClient(a.cfg.Feeds.VocabularyURL, a.cfg.Feeds.RatesURLPrefix)

	opts := []rates.Option{
		rates.WithTimeout(a.cfg.Feeds.Timeout),
	}

	if a.cfg.Redis.Enabled {
		options := &redisPack.Options{
			Addr:     a.cfg.Redis.Host,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		}

		rdStorage, err := redisStorage.InitStorage(ctx, options)
		if err != nil {
			log.Fatalln("Failed to initialize Redis storage", "error", err)
		}

		opts = append(opts, rates.WithSnapshotCache(rdStorage))
		slog.Info("Redis snapshot cache initialized")
	}

	return rates.NewStorage(feed, opts...)
}

func (a *App) startBot(ctx context.Context, conv *converter.Service, storage *rates.Storage) <-chan struct{} {
	bot, err := telegram.NewBot(a.cfg, conv, storage)
	if err != nil {
		log.Fatalln("Failed to initialize telegram bot", "error", err)
	}

	return bot.Start(ctx)
}
