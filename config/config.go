package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Draft store backends.
const (
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// devDraftSecret signs handoff tokens when DRAFT_SECRET is unset. It is
// only accepted with the in-memory draft store.
const devDraftSecret = "stayvia-dev-secret"

// ErrInsecureSecret means a shared draft store would be protected by the
// public development key.
var ErrInsecureSecret = errors.New("DRAFT_SECRET must be set when DRAFT_STORE is not memory")

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (s SMTP) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type Config struct {
	Port            string
	APIBaseURL      string
	PublicBaseURL   string
	BackendTimeout  time.Duration
	CommitTimeout   time.Duration
	DraftTTL        time.Duration
	DraftStore      string
	DraftSecret     []byte
	RedisAddr       string
	RedisPassword   string
	MongoURI        string
	MongoDB         string
	AllowedOrigins  []string
	SMTP            SMTP
	LogLevel        string
	LogFormat       string
	VerifyItemPrice bool
	RateLimitPerSec float64
	Location        *time.Location
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found; using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() Config {
	port := getenv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	loc, err := time.LoadLocation(getenv("APP_TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		logrus.WithError(err).Warn("invalid APP_TIMEZONE, falling back to UTC")
		loc = time.UTC
	}

	secret := os.Getenv("DRAFT_SECRET")
	if secret == "" {
		logrus.Warn("DRAFT_SECRET not set; using an insecure development secret")
		secret = devDraftSecret
	}

	return Config{
		Port:           port,
		APIBaseURL:     strings.TrimRight(getenv("API_BASE_URL", "http://localhost:4000"), "/"),
		PublicBaseURL:  strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:5173"), "/"),
		BackendTimeout: durationEnv("BACKEND_TIMEOUT", 8*time.Second),
		CommitTimeout:  durationEnv("COMMIT_TIMEOUT", 10*time.Second),
		DraftTTL:       durationEnv("DRAFT_TTL", 15*time.Minute),
		DraftStore:     getenv("DRAFT_STORE", StoreMemory),
		DraftSecret:    []byte(secret),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "stayvia"),
		AllowedOrigins: listEnv("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     intEnv("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "text"),
		VerifyItemPrice: boolEnv("VERIFY_ITEM_PRICE", false),
		RateLimitPerSec: floatEnv("RATE_LIMIT_PER_SEC", 5),
		Location:        loc,
	}
}

// Check reports settings the server must not start with.
func (c Config) Check() error {
	if c.DraftStore != StoreMemory && string(c.DraftSecret) == devDraftSecret {
		return ErrInsecureSecret
	}
	return nil
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", v, def)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func floatEnv(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func boolEnv(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func listEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
