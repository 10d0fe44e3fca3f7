package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvData     = "PRODISTAT_DATA"
	EnvVariant  = "PRODISTAT_VARIANT"
	EnvAddr     = "PRODISTAT_ADDR"
	EnvCacheDir = "PRODISTAT_CACHE_DIR"
	EnvLocale   = "PRODISTAT_LOCALE"
)

// ApplyEnv loads envFiles (default ".env") into the process environment,
// without overriding variables that are already set, then applies the
// PRODISTAT_* variables on top of cfg. Missing env files are not an error.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg.Data.Path = getEnv(EnvData, cfg.Data.Path)
	cfg.Data.Variant = getEnv(EnvVariant, cfg.Data.Variant)
	cfg.Data.Locale = getEnv(EnvLocale, cfg.Data.Locale)
	cfg.Server.Addr = getEnv(EnvAddr, cfg.Server.Addr)
	cfg.Cache.Dir = getEnv(EnvCacheDir, cfg.Cache.Dir)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
