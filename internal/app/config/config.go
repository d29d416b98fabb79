package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"

	KVSQLite = "sqlite"
	KVRedis  = "redis"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	CORSAllowOrigin string
	InternalToken   string

	StoreBackend            string
	SupabaseURL             string
	SupabaseServiceRoleKey  string
	SupabaseBucket          string
	// SupabaseExtendedColumns says cotizaciones has descuento and tasa_iva.
	SupabaseExtendedColumns bool
	DatabaseURL             string

	KVDriver      string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AccessPIN overrides the PIN stored in config_global when set.
	AccessPIN     string
	DraftDebounce time.Duration
	ProfilePath   string
	PDFFontDir    string
	// ArchivePDF uploads every exported PDF to the storage bucket.
	ArchivePDF    bool
}

// Load reads the environment, after applying a .env file in the working
// directory when one exists. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	debounce, err := envDuration("DRAFT_DEBOUNCE", time.Second)
	if err != nil {
		return Config{}, err
	}
	archive, err := envBool("PDF_ARCHIVE", false)
	if err != nil {
		return Config{}, err
	}
	extended, err := envBool("SUPABASE_EXTENDED_COLUMNS", false)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr:                env("HTTP_ADDR", ":8080"),
		LogLevel:                env("LOG_LEVEL", "info"),
		CORSAllowOrigin:         env("CORS_ALLOW_ORIGIN", "*"),
		InternalToken:           env("INTERNAL_TOKEN", ""),
		StoreBackend:            strings.ToLower(env("STORE_BACKEND", BackendSupabase)),
		SupabaseURL:             env("SUPABASE_URL", ""),
		SupabaseServiceRoleKey:  env("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseBucket:          env("SUPABASE_BUCKET", "quotes"),
		SupabaseExtendedColumns: extended,
		DatabaseURL:             env("DATABASE_URL", ""),
		KVDriver:                strings.ToLower(env("KV_DRIVER", KVSQLite)),
		SQLitePath:              env("SQLITE_PATH", "cotizador.db"),
		RedisAddr:               env("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:           env("REDIS_PASSWORD", ""),
		RedisDB:                 redisDB,
		AccessPIN:               env("ACCESS_PIN", ""),
		DraftDebounce:           debounce,
		ProfilePath:             env("PROFILE_PATH", "profile.yaml"),
		PDFFontDir:              env("PDF_FONT_DIR", ""),
		ArchivePDF:              archive,
	}, nil
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("missing env SUPABASE_URL"))
		}
		if c.SupabaseServiceRoleKey == "" {
			errs = append(errs, errors.New("missing env SUPABASE_SERVICE_ROLE_KEY"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("missing env DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	switch c.KVDriver {
	case KVSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("missing env SQLITE_PATH"))
		}
	case KVRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("missing env REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown KV_DRIVER %q", c.KVDriver))
	}
	if c.DraftDebounce <= 0 {
		errs = append(errs, errors.New("DRAFT_DEBOUNCE must be positive"))
	}
	return errors.Join(errs...)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", k, err)
	}
	return n, nil
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("env %s: %w", k, err)
	}
	return b, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", k, err)
	}
	return d, nil
}
