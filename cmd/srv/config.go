package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/abi-lab/backend/config"
	"github.com/abi-lab/backend/pkg/logger"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/urfave/cli/v2"
)

// loadConfig builds the configurations in order: defaults, the toml file and
// finally ABI_* environment variables (a .env file is loaded into the
// environment first).
func (s *srv) loadConfig(cctx *cli.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg := config.Default()
	if path := cctx.String(configFlag.Name); path != "" {
		if err := decodeConfigFile(path, &cfg); err != nil {
			return err
		}
	}

	if err := overrideFromEnv(&cfg); err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func decodeConfigFile(path string, cfg *config.Configs) error {
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(raw)
}

func overrideFromEnv(cfg *config.Configs) error {
	setString(&cfg.Env, "ABI_ENV")
	setString(&cfg.LogLevel, "ABI_LOG_LEVEL")

	setString(&cfg.Database.Driver, "ABI_DB_DRIVER")
	setString(&cfg.Database.Host, "ABI_DB_HOST")
	setString(&cfg.Database.Port, "ABI_DB_PORT")
	setString(&cfg.Database.Database, "ABI_DB_NAME")
	setString(&cfg.Database.User, "ABI_DB_USER")
	setString(&cfg.Database.Password, "ABI_DB_PASSWORD")
	setString(&cfg.Database.SQLitePath, "ABI_DB_SQLITE_PATH")

	setString(&cfg.ApiServer.Host, "ABI_API_HOST")
	setString(&cfg.ApiServer.Port, "ABI_API_PORT")
	if origins := os.Getenv("ABI_API_ALLOWED_ORIGINS"); origins != "" {
		cfg.ApiServer.AllowedOrigins = strings.Split(origins, ",")
	}

	setString(&cfg.Auth.TokenSecret, "ABI_TOKEN_SECRET")
	setString(&cfg.Auth.AccessToken.Name, "ABI_ACCESS_TOKEN_NAME")
	if err := setDuration(&cfg.Auth.AccessToken.Expiration, "ABI_ACCESS_TOKEN_EXPIRATION"); err != nil {
		return err
	}

	setString(&cfg.Redis.Addr, "ABI_REDIS_ADDR")
	setString(&cfg.Kafka.Addr, "ABI_KAFKA_ADDR")
	setString(&cfg.Kafka.ClientID, "ABI_KAFKA_CLIENT_ID")

	if err := setInt(&cfg.Approval.AdminCreditThreshold, "ABI_ADMIN_CREDIT_THRESHOLD"); err != nil {
		return err
	}

	if err := setDuration(&cfg.Cron.ReconcileInterval, "ABI_CRON_RECONCILE_INTERVAL"); err != nil {
		return err
	}

	return setDuration(&cfg.Cron.FlushViewInterval, "ABI_CRON_FLUSH_VIEW_INTERVAL")
}

func setString(field *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*field = value
	}
}

func setInt(field *int, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*field = n
	return nil
}

func setDuration(field *time.Duration, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*field = d
	return nil
}
