package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Telegram   Telegram
	HTTPServer HTTPServer
	Feeds      Feeds
	Redis      Redis
}

type Telegram struct {
	Token       string        `env:"TG_TOKEN" env-default:""`
	PollTimeout time.Duration `env:"TG_POLL_TIMEOUT" env-default:"10s"`
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8082"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"2m"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Feeds struct {
	VocabularyURL  string        `env:"FEED_VOCABULARY_URL" env-default:"https://www.cbr.ru/scripts/XML_valFull.asp"`
	RatesURLPrefix string        `env:"FEED_RATES_URL_PREFIX" env-default:"https://www.cbr.ru/scripts/XML_daily.asp?date_req="`
	Timeout        time.Duration `env:"FEED_TIMEOUT" env-default:"10s"`
}

type Redis struct {
	Enabled  bool   `env:"REDIS_ENABLED" env-default:"false"`
	Host     string `env:"REDIS_HOST" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

func NewConfig() *Config {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatal("Error reading env")
	}

	return cfg
}
