package config

import (
	"time"

	"github.com/ananyev/craftmarket/pkg/log"
	"github.com/ananyev/craftmarket/pkg/pgx"
	"github.com/joho/godotenv"
	"github.com/vrischmann/envconfig"
)

type RateLimit struct {
	MaxPerWindow int           `envconfig:"optional"`
	Window       time.Duration `envconfig:"optional"`
}

func (r *RateLimit) SetDefault() {
	if r.MaxPerWindow == 0 {
		r.MaxPerWindow = 3
	}
	if r.Window == 0 {
		r.Window = time.Hour * 24
	}
}

type Config struct {
	Logger        *log.Config
	DB            *pgx.Config
	RateLimit     *RateLimit
	ServerAddress string

	// RedisAddress switches the rate limiter to the shared Redis backend
	// when set; empty means the in-process limiter.
	RedisAddress string `envconfig:"optional"`
}

func NewConfig() (*Config, error) {
	c := &Config{
		Logger:    &log.Config{},
		DB:        &pgx.Config{},
		RateLimit: &RateLimit{},
	}

	_ = godotenv.Load()

	if err := envconfig.Init(c); err != nil {
		return nil, err
	}

	c.DB.SetDefault()
	c.Logger.SetDefault()
	c.RateLimit.SetDefault()

	return c, nil
}
