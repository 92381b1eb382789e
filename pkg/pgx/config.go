package pgx

import "time"

type Config struct {
	DSN                   string
	Timeout               time.Duration `envconfig:"optional"`
	MaxConnectionLifetime time.Duration `envconfig:"optional"`
	MaxIdleConnections    int           `envconfig:"optional"`
	MaxOpenedConnections  int           `envconfig:"optional"`
}

func (c *Config) SetDefault() *Config {
	if c.Timeout == 0 {
		c.Timeout = time.Second * 10
	}
	if c.MaxConnectionLifetime == 0 {
		c.MaxConnectionLifetime = time.Minute * 30
	}
	if c.MaxIdleConnections == 0 {
		c.MaxIdleConnections = 2
	}
	if c.MaxOpenedConnections == 0 {
		c.MaxOpenedConnections = 10
	}

	return c
}
