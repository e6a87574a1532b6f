package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Server   Server
	NSE      NSE
	Refresh  Refresh
}

type Server struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
}

type NSE struct {
	BaseURL string        `env:"NSE_BASE_URL" envDefault:"https://www.nseindia.com"`
	Timeout time.Duration `env:"NSE_TIMEOUT" envDefault:"10s"`
}

type Refresh struct {
	Interval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1s"`
	Symbol   string        `env:"DEFAULT_SYMBOL" envDefault:"RELIANCE"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("parse config error: %s", err)
	}
	return cfg
}
