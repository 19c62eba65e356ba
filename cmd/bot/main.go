package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/langowen/kursbot/deploy/config"
	"github.com/langowen/kursbot/internal/adapter/api_client/cbr"
	"github.com/langowen/kursbot/internal/converter"
	"github.com/langowen/kursbot/internal/ports/telegram"
	"github.com/langowen/kursbot/internal/rates"
)

func main() {
	cfg := config.NewConfig()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())

	feed := cbr.NewClient(cfg.Feeds.VocabularyURL, cfg.Feeds.RatesURLPrefix)
	storage := rates.NewStorage(feed, rates.WithTimeout(cfg.Feeds.Timeout))
	conv := converter.NewService(storage)

	bot, err := telegram.NewBot(cfg, conv, storage)
	if err != nil {
		log.Fatalln("Failed to initialize telegram bot", "error", err)
	}

	slog.Info("starting bot")

	botDone := bot.Start(ctx)

	done := make(chan os.Signal, 1)

	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-done
	slog.Info("Gracefully shutting down")

	cancel()

	<-botDone
	slog.Info("bot stopped")
}
