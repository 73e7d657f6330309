// Package config はサーバーの設定を環境変数から読み込みます
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// 取得元の種類
const (
	SourceAPI   = "api"
	SourceYahoo = "yahoo"
)

var (
	ErrMissingAuctionID = errors.New("AUCTION_ID is required")
	ErrUnknownSource    = errors.New("unknown LISTINGS_SOURCE")
	ErrMissingBaseURL   = errors.New("LISTINGS_BASE_URL is required for the api source")
)

// Config はサーバー全体の設定です
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	AuctionID      string `env:"AUCTION_ID"`
	ListingsSource string `env:"LISTINGS_SOURCE" envDefault:"api"`
	BaseURL        string `env:"LISTINGS_BASE_URL"`
	UserAgent      string `env:"USER_AGENT"`

	PageSize          int           `env:"PAGE_SIZE" envDefault:"10"`
	SyncInterval      time.Duration `env:"SYNC_INTERVAL" envDefault:"60s"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND" envDefault:"2"`
	FetchMaxTries     uint          `env:"FETCH_MAX_TRIES" envDefault:"3"`
	ForceSync         bool          `env:"FORCE_SYNC" envDefault:"false"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

// LoadDotEnv は .env と .env.local を読み込みます
// 既に設定されている環境変数は上書きしません。ファイルが無い場合は何もしません
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// Load は環境変数から設定を読み込み、検証します
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は値の組み合わせを検証します
func (c Config) Validate() error {
	if c.AuctionID == "" {
		return ErrMissingAuctionID
	}
	switch c.ListingsSource {
	case SourceAPI:
		if c.BaseURL == "" {
			return ErrMissingBaseURL
		}
	case SourceYahoo:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.ListingsSource)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive, got %s", c.SyncInterval)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

// Addr はHTTPサーバーの待ち受けアドレスを返します
func (c Config) Addr() string {
	return ":" + c.Port
}
