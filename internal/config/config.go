package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAddress        = ":9090"
	defaultContextTimeout = 30 * time.Second
	defaultCacheDB        = 0
	defaultCacheOpTimeout = 200 * time.Millisecond
	defaultRecentViewTTL  = 5 * time.Minute
	defaultHotViewTTL     = 10 * time.Minute
)

type Config struct {
	ServerAddress  string
	ContextTimeout time.Duration
	CORSOrigins    []string

	Database DatabaseConfig
	Cache    CacheConfig

	JWTSecret    string
	AdminUserIDs []int64
	LogLevel     string
	LogFormat    string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Pass        string
	Name        string
	AutoMigrate bool
}

// DSN builds the go-sql-driver/mysql data source name
func (d DatabaseConfig) DSN() string {
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Local")
	val.Add("charset", "utf8mb4")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", d.User, d.Pass, d.Host, d.Port, d.Name, val.Encode())
}

type CacheConfig struct {
	Host          string
	Port          string
	Pass          string
	DB            int
	OpTimeout     time.Duration
	RecentViewTTL time.Duration
	HotViewTTL    time.Duration
}

// Enabled is false when no cache host is configured; the service then runs without a cache.
func (c CacheConfig) Enabled() bool {
	return c.Host != ""
}

func (c CacheConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	return Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", defaultAddress),
		ContextTimeout: getEnvAsDuration("CONTEXT_TIMEOUT", defaultContextTimeout),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
		Database: DatabaseConfig{
			Host:        getEnv("DATABASE_HOST", "localhost"),
			Port:        getEnv("DATABASE_PORT", "3306"),
			User:        getEnv("DATABASE_USER", "root"),
			Pass:        os.Getenv("DATABASE_PASS"),
			Name:        getEnv("DATABASE_NAME", "likeboard"),
			AutoMigrate: getEnvAsBool("DATABASE_AUTO_MIGRATE", false),
		},
		Cache: CacheConfig{
			Host:          os.Getenv("CACHE_HOST"),
			Port:          getEnv("CACHE_PORT", "6379"),
			Pass:          os.Getenv("CACHE_PASS"),
			DB:            getEnvAsInt("CACHE_DB", defaultCacheDB),
			OpTimeout:     getEnvAsDuration("CACHE_OP_TIMEOUT", defaultCacheOpTimeout),
			RecentViewTTL: getEnvAsDuration("RECENT_VIEW_TTL", defaultRecentViewTTL),
			HotViewTTL:    getEnvAsDuration("HOT_VIEW_TTL", defaultHotViewTTL),
		},
		JWTSecret:    os.Getenv("JWT_SECRET"),
		AdminUserIDs: getEnvAsInt64List("ADMIN_USER_IDS"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %d", key, fallback)
		return fallback
	}
	return n
}

// getEnvAsDuration accepts Go durations ("1500ms") and bare integers as seconds
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.Warnf("failed to parse %s, using default %s", key, fallback)
		return fallback
	}
	return d
}

func getEnvAsBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("failed to parse %s, using default %t", key, fallback)
		return fallback
	}
	return b
}

func getEnvAsList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var res []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	if len(res) == 0 {
		return fallback
	}
	return res
}

// getEnvAsInt64List skips entries that are not integers
func getEnvAsInt64List(key string) []int64 {
	var res []int64
	for _, s := range getEnvAsList(key, nil) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			logrus.Warnf("ignoring invalid %s entry %q", key, s)
			continue
		}
		res = append(res, n)
	}
	return res
}
