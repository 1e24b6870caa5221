package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strs "idverify/pkg/platform/strings"
)

// OCR provider selection.
const (
	OCRProviderHTTP      = "http"
	OCRProviderTesseract = "tesseract"
)

// Storage backend selection.
const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration
	// DocKeywordsFile is an optional YAML keyword table; built-in defaults otherwise.
	DocKeywordsFile string

	OCR      OCRConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Audit    AuditConfig
}

// OCRConfig selects and tunes the OCR provider.
type OCRConfig struct {
	Provider      string
	Endpoint      string
	APIKey        string
	Timeout       time.Duration
	URLExpiry     time.Duration
	RatePerSecond float64
	Burst         int
	CacheTTL      time.Duration
	Languages     []string
}

// StorageConfig selects the URL signer for stored document images.
type StorageConfig struct {
	Backend string

	// s3
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool

	// local dev file server
	LocalRoot    string
	LocalBaseURL string
	LocalSecret  string
}

// DatabaseConfig configures the Postgres result and audit stores.
// An empty URL keeps everything in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the OCR text cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the verdict notifier. No brokers disables it.
type KafkaConfig struct {
	Brokers           []string
	ClientID          string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// AuthConfig configures caller token validation.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// AuditConfig tunes the audit publisher.
type AuditConfig struct {
	// BufferSize > 0 makes audit emission asynchronous.
	BufferSize int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	l := loader{errs: &errs}

	cfg := Server{
		Addr:            l.str("IDV_ADDR", ":8080"),
		Environment:     l.str("ENVIRONMENT", "local"),
		LogLevel:        l.str("LOG_LEVEL", "info"),
		ShutdownTimeout: l.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DocKeywordsFile: l.str("DOC_KEYWORDS_FILE", ""),
		OCR: OCRConfig{
			Provider:      strings.ToLower(l.str("OCR_PROVIDER", OCRProviderHTTP)),
			Endpoint:      l.str("OCR_ENDPOINT", ""),
			APIKey:        l.str("OCR_API_KEY", ""),
			Timeout:       l.duration("OCR_TIMEOUT", 15*time.Second),
			URLExpiry:     l.duration("OCR_URL_EXPIRY", 60*time.Second),
			RatePerSecond: l.float("OCR_RATE_PER_SECOND", 0),
			Burst:         l.int("OCR_BURST", 1),
			CacheTTL:      l.duration("OCR_CACHE_TTL", 24*time.Hour),
			Languages:     l.list("OCR_LANGUAGES", []string{"eng"}),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(l.str("STORAGE_BACKEND", StorageLocal)),
			Region:          l.str("AWS_REGION", "us-east-1"),
			Endpoint:        l.str("S3_ENDPOINT", ""),
			AccessKeyID:     l.str("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: l.str("AWS_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    l.bool("S3_USE_PATH_STYLE", false),
			LocalRoot:       l.str("LOCAL_STORAGE_ROOT", "./data"),
			LocalBaseURL:    l.str("LOCAL_STORAGE_BASE_URL", "http://localhost:8080"),
			LocalSecret:     l.str("LOCAL_STORAGE_SECRET", ""),
		},
		Database: DatabaseConfig{
			URL:             l.str("DATABASE_URL", ""),
			MaxOpenConns:    l.int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    l.int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: l.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          l.str("REDIS_URL", ""),
			PoolSize:     l.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: l.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  l.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  l.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: l.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           l.list("KAFKA_BROKERS", nil),
			ClientID:          l.str("KAFKA_CLIENT_ID", "idverify"),
			Topic:             l.str("KAFKA_TOPIC", "verification.completed"),
			Partitions:        int32(l.int("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(l.int("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Auth: AuthConfig{
			JWTSigningKey: l.str("JWT_SIGNING_KEY", ""),
			JWTIssuer:     l.str("JWT_ISSUER", "idverify"),
			JWTAudience:   l.str("JWT_AUDIENCE", "idverify-api"),
		},
		Audit: AuditConfig{
			BufferSize: l.int("AUDIT_BUFFER_SIZE", 0),
		},
	}

	if cfg.Auth.JWTSigningKey == "" {
		if cfg.Environment != "local" {
			errs = append(errs, "JWT_SIGNING_KEY is required outside local")
		}
		// Use a default for development - should be overridden in production
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	switch cfg.OCR.Provider {
	case OCRProviderHTTP:
		if cfg.OCR.Endpoint == "" {
			errs = append(errs, "OCR_ENDPOINT is required for the http OCR provider")
		}
	case OCRProviderTesseract:
	default:
		errs = append(errs, fmt.Sprintf("unknown OCR_PROVIDER %q", cfg.OCR.Provider))
	}
	switch cfg.Storage.Backend {
	case StorageS3:
	case StorageLocal:
		if cfg.Storage.LocalSecret == "" {
			if cfg.Environment != "local" {
				errs = append(errs, "LOCAL_STORAGE_SECRET is required outside local")
			}
			cfg.Storage.LocalSecret = "dev-storage-secret"
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown STORAGE_BACKEND %q", cfg.Storage.Backend))
	}

	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// loader reads typed values and collects parse errors instead of failing fast,
// so a misconfigured deploy reports every bad variable at once.
type loader struct {
	errs *[]string
}

func (l loader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (l loader) int(key string, def int) int {
	raw := l.str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Sprintf("%s must be an integer", key))
		return def
	}
	return n
}

func (l loader) float(key string, def float64) float64 {
	raw := l.str(key, "")
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Sprintf("%s must be a number", key))
		return def
	}
	return f
}

func (l loader) bool(key string, def bool) bool {
	raw := l.str(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*l.errs = append(*l.errs, fmt.Sprintf("%s must be a boolean", key))
		return def
	}
	return b
}

func (l loader) duration(key string, def time.Duration) time.Duration {
	raw := l.str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*l.errs = append(*l.errs, fmt.Sprintf("%s must be a positive duration", key))
		return def
	}
	return d
}

func (l loader) list(key string, def []string) []string {
	raw := l.str(key, "")
	if raw == "" {
		return def
	}
	return strs.SplitList(raw)
}
