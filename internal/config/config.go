package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"truekki_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"truekki_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"truekki"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	JwtSecret   string `env:"JWT_SECRET"    envDefault:"truekki-dev-secret" validate:"min=8"`
	JwtTTLHours uint   `env:"JWT_TTL_HOURS" envDefault:"24"                 validate:"min=1"`

	SweepIntervalSeconds uint `env:"SWEEP_INTERVAL_SECONDS" envDefault:"60" validate:"min=1"`
	AuctionDurationHours uint `env:"AUCTION_DURATION_HOURS" envDefault:"24" validate:"min=1"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"5000" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
