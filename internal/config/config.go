package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr               string        `env:"ADDR"                 envDefault:":8080"`
	DBPath             string        `env:"DB_PATH"              envDefault:"newsdeck.sqlite"`
	JWTSecret          string        `env:"JWT_SECRET,required,notEmpty"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"        envDefault:"20s"`
	RefreshCronEnabled bool          `env:"REFRESH_CRON_ENABLED" envDefault:"true"`
	CORSOrigins        []string      `env:"CORS_ORIGINS"         envDefault:"http://localhost:3000"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
